// Package behaviour 组合 identify 和 Kademlia 为节点的网络行为
//
// Bootstrap 实现 swarm.NetworkBehaviour[Event]，事件是封闭的两种变体：
// IdentifyEvent 和 KademliaEvent。
//
// AddIdentifiedPeer 把 identify 结果桥接到 DHT 路由表：只有通告了
// 与配置完全一致的 DHT 协议 ID 的节点，其地址才会被加入。
package behaviour
