package upgrader

import (
	"context"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/dep2p/bootnode/internal/core/muxer"
	"github.com/dep2p/bootnode/internal/core/security/noise"
	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/upgrader")

// Upgrader 连接升级器
type Upgrader struct {
	security *noise.Transport
	muxer    *muxer.Transport
}

// New 创建连接升级器
func New(security *noise.Transport, mux *muxer.Transport) (*Upgrader, error) {
	if security == nil {
		return nil, ErrNilSecurity
	}
	if mux == nil {
		return nil, ErrNilMuxer
	}
	return &Upgrader{security: security, muxer: mux}, nil
}

// Upgrade 升级连接
//
// 出站连接 remotePeer 非空时要求远端身份匹配；入站连接忽略 remotePeer。
// 失败时关闭 conn。
func (u *Upgrader) Upgrade(ctx context.Context, conn manet.Conn, dir Direction, remotePeer peer.ID) (*Conn, error) {
	isServer := dir == DirInbound

	// 1. 协商安全协议
	if err := negotiate(ctx, conn, u.security.ID(), isServer); err != nil {
		conn.Close()
		return nil, fmt.Errorf("security negotiation: %w", err)
	}

	// 2. 安全握手
	var secConn *noise.Conn
	var err error
	if isServer {
		secConn, err = u.security.SecureInbound(ctx, conn)
	} else {
		secConn, err = u.security.SecureOutbound(ctx, conn, remotePeer)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("security handshake: %w", err)
	}

	// 3. 协商多路复用器
	if err := negotiate(ctx, secConn, u.muxer.ID(), isServer); err != nil {
		secConn.Close()
		return nil, fmt.Errorf("muxer negotiation: %w", err)
	}

	// 4. 创建多路复用连接
	muxedConn, err := u.muxer.NewConn(secConn, isServer)
	if err != nil {
		secConn.Close()
		return nil, fmt.Errorf("muxer setup: %w", err)
	}

	logger.Debug("connection upgraded",
		"direction", dir.String(),
		"remote_peer", secConn.RemotePeer().String(),
		"remote_addr", conn.RemoteMultiaddr().String())

	return &Conn{
		Conn:     muxedConn,
		raw:      conn,
		sec:      secConn,
		dir:      dir,
		security: u.security.ID(),
		mux:      u.muxer.ID(),
	}, nil
}
