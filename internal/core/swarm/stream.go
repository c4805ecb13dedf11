package swarm

import (
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/bootnode/internal/core/muxer"
	"github.com/dep2p/bootnode/internal/core/upgrader"
)

// Stream 已协商协议的流
type Stream struct {
	*muxer.Stream

	protocol protocol.ID
	conn     *upgrader.Conn
}

// Protocol 返回协商的协议
func (s *Stream) Protocol() protocol.ID {
	return s.protocol
}

// RemotePeer 返回远端节点 ID（已验证）
func (s *Stream) RemotePeer() peer.ID {
	return s.conn.RemotePeer()
}

// RemotePublicKey 返回握手得到的远端公钥
func (s *Stream) RemotePublicKey() crypto.PubKey {
	return s.conn.RemotePublicKey()
}

// RemoteMultiaddr 返回远端地址
func (s *Stream) RemoteMultiaddr() ma.Multiaddr {
	return s.conn.RemoteMultiaddr()
}

// Direction 返回底层连接的方向
func (s *Stream) Direction() upgrader.Direction {
	return s.conn.Direction()
}

// LocalMultiaddr 返回本地地址
func (s *Stream) LocalMultiaddr() ma.Multiaddr {
	return s.conn.LocalMultiaddr()
}
