package swarm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	mss "github.com/multiformats/go-multistream"
	"go.uber.org/multierr"

	"github.com/dep2p/bootnode/internal/core/executor"
	"github.com/dep2p/bootnode/internal/core/transport"
	"github.com/dep2p/bootnode/internal/core/upgrader"
	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/swarm")

// Config swarm 配置
type Config struct {
	// EventBuffer 事件通道容量
	EventBuffer int

	// UpgradeTimeout 入站连接升级超时
	UpgradeTimeout time.Duration

	// NegotiateTimeout 流协议协商超时
	NegotiateTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		EventBuffer:      256,
		UpgradeTimeout:   30 * time.Second,
		NegotiateTimeout: 10 * time.Second,
	}
}

// ============================================================================
//                              Swarm
// ============================================================================

// Swarm 连接群
type Swarm[E any] struct {
	config    Config
	localPeer peer.ID
	stack     *transport.Stack
	exec      executor.Executor
	behaviour NetworkBehaviour[E]
	protocols *mss.MultistreamMuxer[protocol.ID]

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event

	// 传输内部状态，互斥锁保护
	mu          sync.RWMutex
	conns       map[peer.ID][]*trackedConn
	listeners   []*transport.Listener
	listenAddrs []ma.Multiaddr
	nextConnID  atomic.Uint64
	closed      atomic.Bool

	// 以下字段只在事件循环中访问
	numPending     int
	numEstablished int
	peerConns      map[peer.ID]int
}

// trackedConn 连接及其 ID
type trackedConn struct {
	*upgrader.Conn
	id uint64
}

var _ Host = (*Swarm[struct{}])(nil)

// New 创建 swarm 并绑定行为层
func New[E any](
	cfg Config,
	localPeer peer.ID,
	stack *transport.Stack,
	exec executor.Executor,
	behaviour NetworkBehaviour[E],
) *Swarm[E] {
	def := DefaultConfig()
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if cfg.UpgradeTimeout <= 0 {
		cfg.UpgradeTimeout = def.UpgradeTimeout
	}
	if cfg.NegotiateTimeout <= 0 {
		cfg.NegotiateTimeout = def.NegotiateTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Swarm[E]{
		config:    cfg,
		localPeer: localPeer,
		stack:     stack,
		exec:      exec,
		behaviour: behaviour,
		protocols: mss.NewMultistreamMuxer[protocol.ID](),
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan Event, cfg.EventBuffer),
		conns:     make(map[peer.ID][]*trackedConn),
		peerConns: make(map[peer.ID]int),
	}
	for _, p := range behaviour.Protocols() {
		s.protocols.AddHandler(p, nil)
	}
	behaviour.Init(s)
	return s
}

// Events 返回事件通道，交给 Process 处理
func (s *Swarm[E]) Events() <-chan Event {
	return s.events
}

// emit 投递事件，swarm 关闭后丢弃
func (s *Swarm[E]) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// ============================================================================
//                              事件处理（事件循环中调用）
// ============================================================================

// Process 处理一个原始事件
//
// 只能在事件循环中调用。更新连接计数，调用行为层回调，
// 返回需要对外分发的事件；行为层消息没有产生事件时返回 false。
func (s *Swarm[E]) Process(ev Event) (Event, bool) {
	switch e := ev.(type) {
	case Dialing:
		s.numPending++
	case IncomingConnection:
		s.numPending++
	case IncomingConnectionError:
		s.decPending()
	case OutgoingConnectionError:
		s.decPending()
	case ConnectionEstablished:
		s.decPending()
		s.numEstablished++
		s.peerConns[e.PeerID]++
		e.NumEstablished = s.peerConns[e.PeerID]
		s.behaviour.OnConnectionEstablished(ConnInfo{
			PeerID:         e.PeerID,
			Endpoint:       e.Endpoint,
			Direction:      e.Direction,
			NumEstablished: e.NumEstablished,
		})
		return e, true
	case ConnectionClosed:
		if s.numEstablished > 0 {
			s.numEstablished--
		}
		if n := s.peerConns[e.PeerID] - 1; n > 0 {
			s.peerConns[e.PeerID] = n
		} else {
			delete(s.peerConns, e.PeerID)
		}
		e.NumEstablished = s.peerConns[e.PeerID]
		s.behaviour.OnConnectionClosed(ConnInfo{
			PeerID:         e.PeerID,
			Endpoint:       e.Endpoint,
			Direction:      e.Direction,
			NumEstablished: e.NumEstablished,
		})
		return e, true
	case behaviourMessage:
		out, ok := s.behaviour.OnMessage(e.msg)
		if !ok {
			return nil, false
		}
		return BehaviourEvent[E]{Event: out}, true
	}
	return ev, true
}

func (s *Swarm[E]) decPending() {
	if s.numPending > 0 {
		s.numPending--
	}
}

// NetworkInfo 返回网络状态快照
//
// 只能在事件循环中调用。
func (s *Swarm[E]) NetworkInfo() NetworkInfo {
	return NetworkInfo{
		NumPeers:       len(s.peerConns),
		NumEstablished: s.numEstablished,
		NumPending:     s.numPending,
	}
}

// ============================================================================
//                              Host 实现
// ============================================================================

// ID 返回本地节点 ID
func (s *Swarm[E]) ID() peer.ID {
	return s.localPeer
}

// ListenAddrs 返回对外通告的监听地址
func (s *Swarm[E]) ListenAddrs() []ma.Multiaddr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ma.Multiaddr, len(s.listenAddrs))
	copy(out, s.listenAddrs)
	return out
}

// IsConnected 判断是否与节点有连接
func (s *Swarm[E]) IsConnected(p peer.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns[p]) > 0
}

// Notify 向事件循环投递行为层消息
func (s *Swarm[E]) Notify(ctx context.Context, msg any) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.events <- behaviourMessage{msg: msg}:
		return true
	case <-ctx.Done():
		return false
	case <-s.ctx.Done():
		return false
	}
}

// Exec 在后台执行任务
func (s *Swarm[E]) Exec(task func(ctx context.Context)) {
	s.exec.Exec(task)
}

// ============================================================================
//                              连接表
// ============================================================================

func (s *Swarm[E]) addConn(c *upgrader.Conn) (*trackedConn, bool) {
	tc := &trackedConn{Conn: c, id: s.nextConnID.Add(1)}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		c.Close()
		return nil, false
	}
	p := c.RemotePeer()
	s.conns[p] = append(s.conns[p], tc)
	s.mu.Unlock()
	return tc, true
}

func (s *Swarm[E]) removeConn(tc *trackedConn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := tc.RemotePeer()
	conns := s.conns[p]
	for i, c := range conns {
		if c == tc {
			s.conns[p] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(s.conns[p]) == 0 {
		delete(s.conns, p)
	}
}

// bestConn 返回到节点的一个可用连接
func (s *Swarm[E]) bestConn(p peer.ID) *trackedConn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := s.conns[p]
	for i := len(conns) - 1; i >= 0; i-- {
		if !conns[i].IsClosed() {
			return conns[i]
		}
	}
	return nil
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭所有监听器和连接
func (s *Swarm[E]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrSwarmClosed
	}
	s.cancel()

	s.mu.Lock()
	listeners := s.listeners
	s.listeners = nil
	var all []*trackedConn
	for _, conns := range s.conns {
		all = append(all, conns...)
	}
	s.conns = make(map[peer.ID][]*trackedConn)
	s.mu.Unlock()

	var err error
	for _, l := range listeners {
		err = multierr.Append(err, l.Close())
	}
	for _, c := range all {
		err = multierr.Append(err, c.Close())
	}
	logger.Info("swarm closed", "closed_connections", len(all))
	return err
}
