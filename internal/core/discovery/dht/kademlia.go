package dht

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/pkg/lib/log"
	"github.com/dep2p/bootnode/pkg/protocolids"
)

var logger = log.Logger("discovery/dht")

// Config DHT 配置
type Config struct {
	// Protocol DHT 协议 ID，与目标网络保持一致
	Protocol protocol.ID

	// BucketSize K 桶容量，也是查找结果集大小
	BucketSize int

	// Alpha 单次查找的并行请求数
	Alpha int

	// MaxAddrsPerPeer 每个节点保留的地址数
	MaxAddrsPerPeer int

	// RequestTimeout 单个请求超时
	RequestTimeout time.Duration

	// MaxInFlight 全局并发请求上限
	MaxInFlight int64

	// MaxRefreshBuckets 每次引导最多刷新的桶数
	MaxRefreshBuckets int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Protocol:          protocolids.DefaultKademlia,
		BucketSize:        20,
		Alpha:             3,
		MaxAddrsPerPeer:   8,
		RequestTimeout:    10 * time.Second,
		MaxInFlight:       16,
		MaxRefreshBuckets: 16,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Protocol == "" {
		c.Protocol = def.Protocol
	}
	if c.BucketSize <= 0 {
		c.BucketSize = def.BucketSize
	}
	if c.Alpha <= 0 {
		c.Alpha = def.Alpha
	}
	if c.MaxAddrsPerPeer <= 0 {
		c.MaxAddrsPerPeer = def.MaxAddrsPerPeer
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = def.MaxInFlight
	}
	if c.MaxRefreshBuckets <= 0 {
		c.MaxRefreshBuckets = def.MaxRefreshBuckets
	}
	// 随机目标按公共前缀生成，前缀越长代价越高
	if c.MaxRefreshBuckets > 16 {
		c.MaxRefreshBuckets = 16
	}
}

// ============================================================================
//                              Kademlia
// ============================================================================

// Kademlia DHT 行为
//
// AddAddress、Bootstrap、RoutingTable 只能在事件循环中调用。
type Kademlia struct {
	cfg   Config
	local peer.ID
	table *RoutingTable
	sem   *semaphore.Weighted
	host  swarm.Host
}

var _ swarm.NetworkBehaviour[Event] = (*Kademlia)(nil)

// New 创建 DHT 行为
func New(cfg Config, local peer.ID) *Kademlia {
	cfg.applyDefaults()
	return &Kademlia{
		cfg:   cfg,
		local: local,
		table: NewRoutingTable(local, cfg.BucketSize, cfg.MaxAddrsPerPeer),
		sem:   semaphore.NewWeighted(cfg.MaxInFlight),
	}
}

// Init 实现 swarm.NetworkBehaviour
func (k *Kademlia) Init(h swarm.Host) {
	k.host = h
}

// Protocols 实现 swarm.NetworkBehaviour
func (k *Kademlia) Protocols() []protocol.ID {
	return []protocol.ID{k.cfg.Protocol}
}

// Protocol 返回 DHT 协议 ID
func (k *Kademlia) Protocol() protocol.ID {
	return k.cfg.Protocol
}

// RoutingTable 返回路由表
func (k *Kademlia) RoutingTable() *RoutingTable {
	return k.table
}

// AddAddress 把节点地址加入路由表
func (k *Kademlia) AddAddress(p peer.ID, addr ma.Multiaddr) RoutingUpdate {
	u := k.table.Update(p, addr)
	if u.Evicted != "" {
		logger.Debug("evicted least recently seen peer",
			"peer", log.TruncateID(u.Evicted.String(), 8))
	}
	return u
}

// OnConnectionEstablished 实现 swarm.NetworkBehaviour
func (k *Kademlia) OnConnectionEstablished(swarm.ConnInfo) {}

// OnConnectionClosed 实现 swarm.NetworkBehaviour
func (k *Kademlia) OnConnectionClosed(swarm.ConnInfo) {}

// ============================================================================
//                              引导
// ============================================================================

// Bootstrap 启动一次引导
//
// 路由表为空时返回 ErrNoKnownPeers。查找在后台运行，
// 进度通过 QueryProgressed / QueryFinished 事件报告。
func (k *Kademlia) Bootstrap() (QueryID, error) {
	if k.table.Size() == 0 {
		return QueryID{}, ErrNoKnownPeers
	}

	id := QueryID(uuid.New())
	snapshot := k.table.NearestPeers(k.table.local, k.table.Size())

	var cpls []int
	for cpl := 0; cpl < k.table.maxCommonPrefix() && len(cpls) < k.cfg.MaxRefreshBuckets; cpl++ {
		cpls = append(cpls, cpl)
	}

	logger.Debug("bootstrap started", "query", id.String(), "peers", len(snapshot), "refresh_buckets", len(cpls))
	k.host.Exec(func(ctx context.Context) {
		k.runBootstrap(ctx, id, snapshot, cpls)
	})
	return id, nil
}

func (k *Kademlia) runBootstrap(ctx context.Context, id QueryID, snapshot []Entry, cpls []int) {
	start := time.Now()
	finished := QueryFinished{ID: id}

	targets := [][]byte{[]byte(k.local)}
	for _, cpl := range cpls {
		t, err := randomTargetWithCPL(k.table.local, cpl)
		if err != nil {
			logger.Warn("generate refresh target failed", "err", err)
			break
		}
		targets = append(targets, t)
	}

	for step, target := range targets {
		if ctx.Err() != nil {
			break
		}
		key := KeyForBytes(target)
		l := newLookup(k, target, closestEntries(snapshot, key, k.cfg.BucketSize))
		succeeded, failed := l.run(ctx)

		finished.Steps++
		finished.Succeeded += succeeded
		finished.Failed += failed
		k.host.Notify(ctx, progressMsg{ev: QueryProgressed{
			ID:        id,
			Step:      step,
			Target:    key,
			Succeeded: succeeded,
			Failed:    failed,
		}})
	}

	finished.Duration = time.Since(start)
	k.host.Notify(ctx, finishedMsg{ev: finished})
}

// ============================================================================
//                              事件循环消息
// ============================================================================

// OnMessage 处理后台任务的消息
func (k *Kademlia) OnMessage(msg any) (Event, bool) {
	switch m := msg.(type) {
	case closestRequest:
		entries := k.table.NearestPeers(m.key, k.cfg.BucketSize+1)
		m.reply <- excludePeer(entries, m.from, k.cfg.BucketSize)
		if _, ok := k.table.Find(m.from); !ok {
			return UnroutablePeer{Peer: m.from}, true
		}
		return nil, false

	case inboundMsg:
		return InboundRequest{Peer: m.from, Type: m.typ}, true

	case respondedMsg:
		u := k.AddAddress(m.peer, m.addr)
		if u.Kind == UpdateRejected {
			if m.addr == nil && m.peer != k.local {
				return UnroutablePeer{Peer: m.peer}, true
			}
			return nil, false
		}
		return RoutingUpdated{
			Peer:    m.peer,
			Addr:    m.addr,
			IsNew:   u.Kind == UpdateAdded,
			Evicted: u.Evicted,
		}, true

	case failedMsg:
		if !k.table.Remove(m.peer) {
			return nil, false
		}
		return PeerRemoved{Peer: m.peer}, true

	case progressMsg:
		return m.ev, true

	case finishedMsg:
		return m.ev, true
	}
	return nil, false
}

func excludePeer(entries []Entry, p peer.ID, limit int) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.ID != p {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
