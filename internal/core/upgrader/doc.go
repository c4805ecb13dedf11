// Package upgrader 实现连接升级器
//
// 将原始 TCP 连接升级为已认证、加密、可多路复用的连接：
//
//  1. multistream-select 协商安全协议（/noise）
//  2. Noise XX 握手，验证远端身份
//  3. multistream-select 协商多路复用器（/yamux/1.0.0）
//  4. 建立 yamux 会话
//
// 任一步骤失败都会关闭原始连接。
package upgrader
