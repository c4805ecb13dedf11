// Package muxer 基于 yamux 实现流多路复用
//
// 安全连接建立后，在其上创建 yamux 会话，每个应用协议（identify、Kademlia）
// 使用独立的逻辑流。协议标识 /yamux/1.0.0。
package muxer
