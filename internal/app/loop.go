package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/bootnode/internal/core/behaviour"
	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/metrics"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("app")

// Swarm 引导节点使用的 swarm
type Swarm = swarm.Swarm[behaviour.Event]

// ============================================================================
//                              事件循环
// ============================================================================

// Loop 事件循环
//
// swarm 的计数器、行为层状态和路由表只在 Run 所在的 goroutine 中访问。
type Loop struct {
	swarm     *Swarm
	behaviour *behaviour.Bootstrap
	metrics   *metrics.Metrics
	clock     clock.Clock

	bootstrapInterval time.Duration
	statusInterval    time.Duration

	// ready 在定时器创建后关闭
	ready chan struct{}
}

// NewLoop 创建事件循环
func NewLoop(
	sw *Swarm,
	b *behaviour.Bootstrap,
	m *metrics.Metrics,
	clk clock.Clock,
	bootstrapInterval time.Duration,
) *Loop {
	if clk == nil {
		clk = clock.New()
	}
	return &Loop{
		swarm:             sw,
		behaviour:         b,
		metrics:           m,
		clock:             clk,
		bootstrapInterval: bootstrapInterval,
		statusInterval:    StatusInterval,
		ready:             make(chan struct{}),
	}
}

// Ready 返回定时器就绪后关闭的通道
func (l *Loop) Ready() <-chan struct{} {
	return l.ready
}

// Run 运行事件循环，直到 ctx 取消
func (l *Loop) Run(ctx context.Context) error {
	bootstrapTicker := l.clock.Ticker(l.bootstrapInterval)
	defer bootstrapTicker.Stop()
	statusTicker := l.clock.Ticker(l.statusInterval)
	defer statusTicker.Stop()
	close(l.ready)

	events := l.swarm.Events()
	for {
		select {
		case <-bootstrapTicker.C:
			l.bootstrap()
		case <-statusTicker.C:
			l.reportStatus()
		case raw := <-events:
			if ev, ok := l.swarm.Process(raw); ok {
				l.dispatch(ev)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) bootstrap() {
	id, err := l.behaviour.Kademlia.Bootstrap()
	l.metrics.ObserveBootstrap(err)
	switch {
	case err == nil:
		logger.Debug("bootstrap triggered", "query", id.String())
	case errors.Is(err, dht.ErrNoKnownPeers):
		logger.Debug("bootstrap skipped", "err", err)
	default:
		logger.Warn("bootstrap failed", "err", err)
	}
}

func (l *Loop) reportStatus() {
	info := l.swarm.NetworkInfo()
	size := l.behaviour.Kademlia.RoutingTable().Size()
	l.metrics.ObserveStatus(info, size)
	logger.Info("network status",
		"peers", info.NumPeers,
		"established", info.NumEstablished,
		"pending", info.NumPending,
		"routing_table", size,
	)
}

// ============================================================================
//                              事件分发
// ============================================================================

func (l *Loop) dispatch(ev swarm.Event) {
	inner := unwrap(ev)
	l.metrics.ObserveEvent(eventKind(inner))

	switch e := inner.(type) {
	case identify.Received:
		kad := l.behaviour.Kademlia
		n := behaviour.AddIdentifiedPeer(kad, kad.Protocol(), e)
		logger.Debug("identified peer",
			"peer", log.TruncateID(e.PeerID.String(), 8),
			"agent", e.Info.AgentVersion,
			"added_addrs", n,
		)
	default:
		logger.Debug("event", "kind", eventKind(inner), "detail", fmt.Sprintf("%+v", inner))
	}
}

// unwrap 取出行为层事件的内层变体
func unwrap(ev swarm.Event) any {
	be, ok := ev.(swarm.BehaviourEvent[behaviour.Event])
	if !ok {
		return ev
	}
	switch e := be.Event.(type) {
	case behaviour.IdentifyEvent:
		return e.Event
	case behaviour.KademliaEvent:
		return e.Event
	}
	return be.Event
}

// eventKind 返回事件的类型名，用作日志和指标标签
func eventKind(ev any) string {
	return fmt.Sprintf("%T", ev)
}
