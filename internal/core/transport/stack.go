package transport

import (
	"context"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/dep2p/bootnode/internal/core/transport/tcp"
	"github.com/dep2p/bootnode/internal/core/upgrader"
)

// ============================================================================
//                              Stack
// ============================================================================

// Stack 传输栈
type Stack struct {
	tcp      *tcp.Transport
	upgrader *upgrader.Upgrader
}

// NewStack 创建传输栈
func NewStack(t *tcp.Transport, u *upgrader.Upgrader) *Stack {
	return &Stack{tcp: t, upgrader: u}
}

// CanDial 判断地址能否拨号
func (s *Stack) CanDial(addr ma.Multiaddr) bool {
	return s.tcp.CanDial(addr)
}

// Dial 拨号并升级连接
//
// p 非空时要求远端身份匹配。
func (s *Stack) Dial(ctx context.Context, addr ma.Multiaddr, p peer.ID) (*upgrader.Conn, error) {
	raw, err := s.tcp.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return s.upgrader.Upgrade(ctx, raw, upgrader.DirOutbound, p)
}

// Listen 监听地址
func (s *Stack) Listen(addr ma.Multiaddr) (*Listener, error) {
	l, err := s.tcp.Listen(addr)
	if err != nil {
		return nil, err
	}
	return &Listener{listener: l, upgrader: s.upgrader}, nil
}

// ============================================================================
//                              Listener
// ============================================================================

// Listener 传输栈监听器
//
// Accept 只接受原始连接，升级由调用方在后台任务中进行，
// 慢速握手不会阻塞后续连接的接受。
type Listener struct {
	listener manet.Listener
	upgrader *upgrader.Upgrader
}

// Accept 接受原始连接
func (l *Listener) Accept() (manet.Conn, error) {
	return l.listener.Accept()
}

// Upgrade 升级入站连接
func (l *Listener) Upgrade(ctx context.Context, raw manet.Conn) (*upgrader.Conn, error) {
	return l.upgrader.Upgrade(ctx, raw, upgrader.DirInbound, "")
}

// Multiaddr 返回实际监听地址
func (l *Listener) Multiaddr() ma.Multiaddr {
	return l.listener.Multiaddr()
}

// Close 关闭监听器
func (l *Listener) Close() error {
	return l.listener.Close()
}
