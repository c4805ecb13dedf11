// Package transport 组合传输栈
//
// Stack 把三层组合为一个整体，对上层只暴露已认证的多路复用连接：
//
//	TCP（含系统 DNS 解析） -> Noise -> yamux
//
// 各层在启动时组合一次，之后只读。
package transport
