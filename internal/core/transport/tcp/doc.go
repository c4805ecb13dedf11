// Package tcp 提供基于 TCP 的传输层实现
//
// 地址使用 multiaddr 表示：
//   - /ip4/0.0.0.0/tcp/4001
//   - /ip6/::/tcp/4001
//   - /dns4/boot.example.com/tcp/4001
//
// 拨号和监听前，/dns、/dns4、/dns6、/dnsaddr 组件通过系统解析器解析。
// TCP 不提供原生多路复用，需要配合 upgrader（Noise + yamux）使用。
package tcp
