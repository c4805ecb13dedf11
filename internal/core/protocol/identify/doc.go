// Package identify 实现 libp2p identify 协议
//
// 连接建立后双方各自打开一条 /ipfs/id/1.0.0 流，响应方写入一条
// varint 长度前缀的 Identify 消息后关闭流。消息包含：
//   - 公钥
//   - 监听地址（附带签名的 PeerRecord）
//   - 观测地址
//   - 支持的协议列表
//   - 协议版本和代理版本
//
// # 校验
//
// 收到的公钥必须与连接上已验证的节点 ID 一致。签名记录有效时，
// 记录中的地址替换明文地址列表；签名无效产生 Error 事件。
//
// # 事件
//
// Behaviour 实现 swarm.NetworkBehaviour，事件为 Received、Sent、Error。
package identify
