package swarm

import (
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/bootnode/internal/core/upgrader"
)

// Event swarm 事件
//
// 封闭的变体集合：
//   - Dialing
//   - IncomingConnection
//   - ConnectionEstablished
//   - ConnectionClosed
//   - IncomingConnectionError
//   - OutgoingConnectionError
//   - NewListenAddr
//   - ListenerClosed
//   - BehaviourEvent
type Event interface {
	swarmEvent()
}

// Dialing 开始拨号
type Dialing struct {
	PeerID peer.ID
	Addr   ma.Multiaddr
}

// IncomingConnection 接受了入站连接，尚未完成升级
type IncomingConnection struct {
	LocalAddr  ma.Multiaddr
	RemoteAddr ma.Multiaddr
}

// ConnectionEstablished 连接升级完成
type ConnectionEstablished struct {
	PeerID    peer.ID
	Endpoint  ma.Multiaddr
	Direction upgrader.Direction
	// NumEstablished 与该节点的连接数（包含本连接），由 Process 填写
	NumEstablished int

	connID uint64
}

// ConnectionClosed 连接关闭
type ConnectionClosed struct {
	PeerID    peer.ID
	Endpoint  ma.Multiaddr
	Direction upgrader.Direction
	// NumEstablished 与该节点剩余的连接数，由 Process 填写
	NumEstablished int

	connID uint64
}

// IncomingConnectionError 入站连接升级失败
type IncomingConnectionError struct {
	LocalAddr  ma.Multiaddr
	RemoteAddr ma.Multiaddr
	Err        error
}

// OutgoingConnectionError 出站拨号失败
type OutgoingConnectionError struct {
	PeerID peer.ID
	Addr   ma.Multiaddr
	Err    error
}

// NewListenAddr 新的监听地址可用
type NewListenAddr struct {
	Addr ma.Multiaddr
}

// ListenerClosed 监听器关闭
type ListenerClosed struct {
	Addr ma.Multiaddr
	Err  error
}

// BehaviourEvent 行为层产生的事件
type BehaviourEvent[E any] struct {
	Event E
}

// behaviourMessage 后台任务投递给行为层的消息
type behaviourMessage struct {
	msg any
}

func (Dialing) swarmEvent()                 {}
func (IncomingConnection) swarmEvent()      {}
func (ConnectionEstablished) swarmEvent()   {}
func (ConnectionClosed) swarmEvent()        {}
func (IncomingConnectionError) swarmEvent() {}
func (OutgoingConnectionError) swarmEvent() {}
func (NewListenAddr) swarmEvent()           {}
func (ListenerClosed) swarmEvent()          {}
func (BehaviourEvent[E]) swarmEvent()       {}
func (behaviourMessage) swarmEvent()        {}

// ConnInfo 行为层可见的连接信息
type ConnInfo struct {
	PeerID    peer.ID
	Endpoint  ma.Multiaddr
	Direction upgrader.Direction
	// NumEstablished 与该节点的连接数
	NumEstablished int
}

// NetworkInfo 网络状态快照
type NetworkInfo struct {
	// NumPeers 已连接的不同节点数
	NumPeers int
	// NumEstablished 已建立的连接数
	NumEstablished int
	// NumPending 正在拨号或升级的连接数
	NumPending int
}
