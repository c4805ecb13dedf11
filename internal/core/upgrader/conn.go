package upgrader

import (
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/dep2p/bootnode/internal/core/muxer"
	"github.com/dep2p/bootnode/internal/core/security/noise"
)

// Direction 连接方向
type Direction int

const (
	// DirInbound 入站连接
	DirInbound Direction = iota
	// DirOutbound 出站连接
	DirOutbound
)

func (d Direction) String() string {
	if d == DirInbound {
		return "inbound"
	}
	return "outbound"
}

// Conn 升级完成的连接
//
// RemotePeer 来自 Noise 握手，已经过签名验证。
type Conn struct {
	*muxer.Conn

	raw      manet.Conn
	sec      *noise.Conn
	dir      Direction
	security protocol.ID
	mux      protocol.ID
}

// LocalPeer 返回本地节点 ID
func (c *Conn) LocalPeer() peer.ID {
	return c.sec.LocalPeer()
}

// RemotePeer 返回已验证的远端节点 ID
func (c *Conn) RemotePeer() peer.ID {
	return c.sec.RemotePeer()
}

// RemotePublicKey 返回远端身份公钥
func (c *Conn) RemotePublicKey() crypto.PubKey {
	return c.sec.RemotePublicKey()
}

// LocalMultiaddr 返回本地地址
func (c *Conn) LocalMultiaddr() ma.Multiaddr {
	return c.raw.LocalMultiaddr()
}

// RemoteMultiaddr 返回远端地址
func (c *Conn) RemoteMultiaddr() ma.Multiaddr {
	return c.raw.RemoteMultiaddr()
}

// Direction 返回连接方向
func (c *Conn) Direction() Direction {
	return c.dir
}

// Security 返回协商的安全协议
func (c *Conn) Security() protocol.ID {
	return c.security
}

// Muxer 返回协商的多路复用协议
func (c *Conn) Muxer() protocol.ID {
	return c.mux
}
