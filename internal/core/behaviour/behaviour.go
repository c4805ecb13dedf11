package behaviour

import (
	"context"

	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
	"github.com/dep2p/bootnode/internal/core/swarm"
)

// Event 组合行为事件
//
// 变体：IdentifyEvent、KademliaEvent。
type Event interface {
	behaviourEvent()
}

// IdentifyEvent identify 事件
type IdentifyEvent struct {
	Event identify.Event
}

// KademliaEvent DHT 事件
type KademliaEvent struct {
	Event dht.Event
}

func (IdentifyEvent) behaviourEvent() {}
func (KademliaEvent) behaviourEvent() {}

// ============================================================================
//                              Bootstrap
// ============================================================================

// Bootstrap 引导节点的网络行为
type Bootstrap struct {
	Identify *identify.Behaviour
	Kademlia *dht.Kademlia
}

var _ swarm.NetworkBehaviour[Event] = (*Bootstrap)(nil)

// New 组合行为
func New(id *identify.Behaviour, kad *dht.Kademlia) *Bootstrap {
	return &Bootstrap{Identify: id, Kademlia: kad}
}

// Init 实现 swarm.NetworkBehaviour
func (b *Bootstrap) Init(h swarm.Host) {
	b.Identify.Init(h)
	b.Kademlia.Init(h)
}

// Protocols 返回两个子行为的协议
func (b *Bootstrap) Protocols() []protocol.ID {
	return append(b.Identify.Protocols(), b.Kademlia.Protocols()...)
}

// HandleStream 按协商的协议分发入站流
func (b *Bootstrap) HandleStream(ctx context.Context, s *swarm.Stream) {
	switch s.Protocol() {
	case identify.ProtocolID:
		b.Identify.HandleStream(ctx, s)
	case b.Kademlia.Protocol():
		b.Kademlia.HandleStream(ctx, s)
	default:
		s.Reset()
	}
}

// OnConnectionEstablished 实现 swarm.NetworkBehaviour
func (b *Bootstrap) OnConnectionEstablished(info swarm.ConnInfo) {
	b.Identify.OnConnectionEstablished(info)
	b.Kademlia.OnConnectionEstablished(info)
}

// OnConnectionClosed 实现 swarm.NetworkBehaviour
func (b *Bootstrap) OnConnectionClosed(info swarm.ConnInfo) {
	b.Identify.OnConnectionClosed(info)
	b.Kademlia.OnConnectionClosed(info)
}

// OnMessage 依次交给两个子行为
func (b *Bootstrap) OnMessage(msg any) (Event, bool) {
	if ev, ok := b.Identify.OnMessage(msg); ok {
		return IdentifyEvent{Event: ev}, true
	}
	if ev, ok := b.Kademlia.OnMessage(msg); ok {
		return KademliaEvent{Event: ev}, true
	}
	return nil, false
}
