// Package lib 包含基础设施工具库
//
// 本目录包含与节点组件无关的通用工具库：
//
//   - log: 日志封装
//   - proto: Kademlia 消息定义与长度前缀分帧
//
// 协议 ID 常量位于 pkg/protocolids。
package lib
