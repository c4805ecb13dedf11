package noise

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/dep2p/bootnode/pkg/lib/log"
	"github.com/dep2p/bootnode/pkg/protocolids"
)

var logger = log.Logger("core/security/noise")

// Transport Noise 协议传输
type Transport struct {
	privKey crypto.PrivKey
	localID peer.ID
}

// New 创建 Noise 传输
func New(privKey crypto.PrivKey) (*Transport, error) {
	if privKey == nil {
		return nil, errors.New("noise: private key is nil")
	}
	id, err := peer.IDFromPrivateKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("derive local peer id: %w", err)
	}
	return &Transport{
		privKey: privKey,
		localID: id,
	}, nil
}

// ID 返回协议标识
func (t *Transport) ID() protocol.ID {
	return protocolids.Noise
}

// LocalPeer 返回本地节点 ID
func (t *Transport) LocalPeer() peer.ID {
	return t.localID
}

// SecureInbound 保护入站连接（响应者）
func (t *Transport) SecureInbound(ctx context.Context, conn net.Conn) (*Conn, error) {
	sc, err := t.performHandshake(ctx, conn, "", false)
	if err != nil {
		logger.Debug("inbound noise handshake failed", "remote", conn.RemoteAddr().String(), "err", err)
		return nil, fmt.Errorf("noise inbound handshake: %w", err)
	}
	return sc, nil
}

// SecureOutbound 保护出站连接（发起者）
//
// remotePeer 非空时要求远端身份与之匹配。
func (t *Transport) SecureOutbound(ctx context.Context, conn net.Conn, remotePeer peer.ID) (*Conn, error) {
	sc, err := t.performHandshake(ctx, conn, remotePeer, true)
	if err != nil {
		logger.Debug("outbound noise handshake failed", "remote", conn.RemoteAddr().String(), "err", err)
		return nil, fmt.Errorf("noise outbound handshake: %w", err)
	}
	return sc, nil
}
