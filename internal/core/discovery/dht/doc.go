// Package dht 实现用于节点发现的 Kademlia DHT
//
// # 路由表
//
// 节点键为 SHA256(peer id 字节)，按与本地键的 XOR 距离公共前缀长度分成
// 256 个 K 桶。每个桶容量 K=20，满时淘汰最久未见的节点。每个节点最多保留
// 8 个候选地址，最近见到的在前。
//
// 地址只从两个来源进入路由表：
//   - identify 通告了 DHT 协议的节点（由 behaviour 包桥接）
//   - 通过已验证连接回应了 DHT 请求的节点
//
// # 引导
//
// Bootstrap 先对本地键做一次迭代查找，再对比最近非空桶更远的桶各做一次
// 随机键查找（最多 16 个桶）。路由表为空时返回 ErrNoKnownPeers。
//
// # 并发
//
// 路由表只在事件循环中访问。查找和入站请求在后台任务中运行，
// 通过 Host.Notify 把结果送回事件循环。
package dht
