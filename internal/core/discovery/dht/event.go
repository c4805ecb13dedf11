package dht

import (
	"time"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	pb "github.com/dep2p/bootnode/pkg/lib/proto/kad"
)

// QueryID 查询 ID
type QueryID uuid.UUID

func (id QueryID) String() string {
	return uuid.UUID(id).String()
}

// Event DHT 事件
//
// 变体：RoutingUpdated、PeerRemoved、UnroutablePeer、InboundRequest、
// QueryProgressed、QueryFinished。
type Event interface {
	kadEvent()
}

// RoutingUpdated 节点进入路由表或被标记为最近见到
type RoutingUpdated struct {
	Peer    peer.ID
	Addr    ma.Multiaddr
	IsNew   bool
	Evicted peer.ID
}

// PeerRemoved 节点请求失败，移出路由表
type PeerRemoved struct {
	Peer peer.ID
}

// UnroutablePeer 节点不在路由表中，也没有可拨号的地址
type UnroutablePeer struct {
	Peer peer.ID
}

// InboundRequest 收到入站请求
type InboundRequest struct {
	Peer peer.ID
	Type pb.MessageType
}

// QueryProgressed 引导中的一次查找完成
type QueryProgressed struct {
	ID        QueryID
	Step      int
	Target    Key
	Succeeded int
	Failed    int
}

// QueryFinished 引导完成
type QueryFinished struct {
	ID        QueryID
	Steps     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

func (RoutingUpdated) kadEvent()  {}
func (PeerRemoved) kadEvent()     {}
func (UnroutablePeer) kadEvent()  {}
func (InboundRequest) kadEvent()  {}
func (QueryProgressed) kadEvent() {}
func (QueryFinished) kadEvent()   {}

// ============================================================================
//                              后台任务消息
// ============================================================================

// closestRequest 入站请求读取路由表
type closestRequest struct {
	from  peer.ID
	key   Key
	reply chan []Entry
}

type inboundMsg struct {
	from peer.ID
	typ  pb.MessageType
}

// respondedMsg 节点通过已验证连接回应了请求
type respondedMsg struct {
	peer peer.ID
	addr ma.Multiaddr
}

type failedMsg struct {
	peer peer.ID
}

type progressMsg struct {
	ev QueryProgressed
}

type finishedMsg struct {
	ev QueryFinished
}
