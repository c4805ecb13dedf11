package identify

import (
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
)

// Info 远端节点的 identify 信息
type Info struct {
	PublicKey       crypto.PubKey
	ProtocolVersion string
	AgentVersion    string
	ListenAddrs     []ma.Multiaddr
	Protocols       []protocol.ID
	ObservedAddr    ma.Multiaddr

	// SignedRecord 为 true 时 ListenAddrs 来自已验证的签名记录
	SignedRecord bool
}

// Event identify 事件
//
// 变体：Received、Sent、Error。
type Event interface {
	identifyEvent()
}

// Received 收到远端的 identify 信息
type Received struct {
	PeerID peer.ID
	Info   Info
}

// Sent 已向远端发送本地信息
type Sent struct {
	PeerID peer.ID
}

// Error identify 交换失败
type Error struct {
	PeerID peer.ID
	Err    error
}

func (Received) identifyEvent() {}
func (Sent) identifyEvent()     {}
func (Error) identifyEvent()    {}

// message 后台任务投递到事件循环的消息
type message struct {
	ev Event
}
