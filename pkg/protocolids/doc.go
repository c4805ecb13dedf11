// Package protocolids 定义 bootnode 使用的协议 ID 注册表。
//
// 本包是协议 ID 的唯一来源，其他模块引用这里的常量，不在别处定义字面量。
//
// 协议分为两层：
//   - 连接层：安全协议和多路复用协议，在 TCP 连接上用 multistream-select 协商
//   - 流层：在每条 yamux 流上协商的应用协议（identify、Kademlia）
//
// Kademlia 协议 ID 是集成参数，由配置覆盖，DefaultKademlia 只是默认值。
package protocolids
