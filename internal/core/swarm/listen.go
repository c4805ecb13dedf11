package swarm

import (
	"context"
	"errors"
	"net"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/dep2p/bootnode/internal/core/transport"
	"github.com/dep2p/bootnode/internal/core/upgrader"
)

// Listen 监听地址
//
// 绑定失败返回 *BindError。监听地址为未指定地址（0.0.0.0 / ::）时，
// 对外通告的地址展开为本机各接口地址。
func (s *Swarm[E]) Listen(addr ma.Multiaddr) error {
	if s.closed.Load() {
		return ErrSwarmClosed
	}

	l, err := s.stack.Listen(addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}

	bound := l.Multiaddr()
	advertised := expandListenAddr(bound)

	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.listenAddrs = append(s.listenAddrs, advertised...)
	s.mu.Unlock()

	logger.Info("listening", "addr", bound.String())
	for _, a := range advertised {
		s.emit(NewListenAddr{Addr: a})
	}

	s.exec.Exec(func(ctx context.Context) {
		s.acceptLoop(ctx, l)
	})
	return nil
}

// expandListenAddr 展开未指定地址
func expandListenAddr(bound ma.Multiaddr) []ma.Multiaddr {
	ifaces, err := manet.InterfaceMultiaddrs()
	if err != nil {
		return []ma.Multiaddr{bound}
	}
	resolved, err := manet.ResolveUnspecifiedAddresses([]ma.Multiaddr{bound}, ifaces)
	if err != nil || len(resolved) == 0 {
		return []ma.Multiaddr{bound}
	}
	return resolved
}

// acceptLoop 接受入站连接，每个连接在独立任务中升级
func (s *Swarm[E]) acceptLoop(ctx context.Context, l *transport.Listener) {
	for {
		raw, err := l.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				logger.Warn("accept failed", "addr", l.Multiaddr().String(), "err", err)
			}
			s.emit(ListenerClosed{Addr: l.Multiaddr(), Err: err})
			return
		}

		if !s.emit(IncomingConnection{LocalAddr: raw.LocalMultiaddr(), RemoteAddr: raw.RemoteMultiaddr()}) {
			raw.Close()
			return
		}
		s.exec.Exec(func(ctx context.Context) {
			s.upgradeInbound(ctx, l, raw)
		})
	}
}

func (s *Swarm[E]) upgradeInbound(ctx context.Context, l *transport.Listener, raw manet.Conn) {
	ctx, cancel := context.WithTimeout(ctx, s.config.UpgradeTimeout)
	defer cancel()

	c, err := l.Upgrade(ctx, raw)
	if err != nil {
		s.emit(IncomingConnectionError{
			LocalAddr:  raw.LocalMultiaddr(),
			RemoteAddr: raw.RemoteMultiaddr(),
			Err:        err,
		})
		return
	}
	s.startConn(c)
}

// startConn 登记连接、投递建立事件并开始服务
func (s *Swarm[E]) startConn(c *upgrader.Conn) (*trackedConn, bool) {
	tc, ok := s.addConn(c)
	if !ok {
		return nil, false
	}

	s.emit(ConnectionEstablished{
		PeerID:    c.RemotePeer(),
		Endpoint:  c.RemoteMultiaddr(),
		Direction: c.Direction(),
		connID:    tc.id,
	})
	s.exec.Exec(func(ctx context.Context) {
		s.serveConn(ctx, tc)
	})
	return tc, true
}

// serveConn 接受连接上的入站流，连接关闭后投递关闭事件
func (s *Swarm[E]) serveConn(ctx context.Context, tc *trackedConn) {
	for {
		st, err := tc.AcceptStream()
		if err != nil {
			break
		}
		s.exec.Exec(func(ctx context.Context) {
			s.handleInboundStream(ctx, tc, st)
		})
	}

	tc.Close()
	s.removeConn(tc)
	s.emit(ConnectionClosed{
		PeerID:    tc.RemotePeer(),
		Endpoint:  tc.RemoteMultiaddr(),
		Direction: tc.Direction(),
		connID:    tc.id,
	})
}
