// Package proto 包含 bootnode 的 Protobuf 定义和消息分帧
//
// noise 握手 payload 和 identify 消息直接使用 go-libp2p 生成的
// p2p/security/noise/pb 与 p2p/protocol/identify/pb。
//
// # 子包
//
//   - kad: Kademlia DHT 消息，与 libp2p kad-dht 的 dht.proto 字段号兼容
//
// 本包提供 varint 长度前缀的消息读写。
package proto
