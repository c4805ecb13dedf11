package dht

import (
	"slices"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// ============================================================================
//                              路由表节点
// ============================================================================

// Entry 路由表节点
type Entry struct {
	ID  peer.ID
	Key Key

	// Addrs 候选地址，最近见到的在前
	Addrs []ma.Multiaddr
}

func (e *Entry) clone() Entry {
	return Entry{ID: e.ID, Key: e.Key, Addrs: slices.Clone(e.Addrs)}
}

// addAddr 把地址移到最前，超出上限时丢弃最旧的
func (e *Entry) addAddr(addr ma.Multiaddr, limit int) {
	for i, a := range e.Addrs {
		if a.Equal(addr) {
			e.Addrs = slices.Delete(e.Addrs, i, i+1)
			break
		}
	}
	e.Addrs = slices.Insert(e.Addrs, 0, addr)
	if len(e.Addrs) > limit {
		e.Addrs = e.Addrs[:limit]
	}
}

// ============================================================================
//                              更新结果
// ============================================================================

// UpdateKind 路由表更新结果
type UpdateKind int

const (
	// UpdateRejected 节点未进入路由表（本地节点，或没有地址的新节点）
	UpdateRejected UpdateKind = iota
	// UpdateAdded 新节点进入路由表
	UpdateAdded
	// UpdateRefreshed 已有节点被标记为最近见到
	UpdateRefreshed
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateAdded:
		return "added"
	case UpdateRefreshed:
		return "refreshed"
	default:
		return "rejected"
	}
}

// RoutingUpdate AddAddress 的结果
type RoutingUpdate struct {
	Kind UpdateKind

	// Evicted 为腾出位置被淘汰的节点，没有淘汰时为空
	Evicted peer.ID
}

// ============================================================================
//                              路由表
// ============================================================================

// RoutingTable K 桶路由表
//
// 非并发安全，只在事件循环中使用。
type RoutingTable struct {
	local      Key
	localID    peer.ID
	bucketSize int
	maxAddrs   int

	// buckets[i] 保存与本地键公共前缀为 i 位的节点
	buckets [KeySize * 8]*simplelru.LRU[peer.ID, *Entry]
}

// NewRoutingTable 创建路由表
func NewRoutingTable(localID peer.ID, bucketSize, maxAddrs int) *RoutingTable {
	return &RoutingTable{
		local:      KeyForPeer(localID),
		localID:    localID,
		bucketSize: bucketSize,
		maxAddrs:   maxAddrs,
	}
}

func (rt *RoutingTable) bucket(cpl int, create bool) *simplelru.LRU[peer.ID, *Entry] {
	b := rt.buckets[cpl]
	if b == nil && create {
		// 容量为正时 NewLRU 不返回错误
		b, _ = simplelru.NewLRU[peer.ID, *Entry](rt.bucketSize, nil)
		rt.buckets[cpl] = b
	}
	return b
}

// Update 记录节点的一个地址
//
// 已有节点标记为最近见到，addr 为 nil 时只刷新；新节点必须带地址，
// 进入满桶时淘汰最久未见的节点。
func (rt *RoutingTable) Update(p peer.ID, addr ma.Multiaddr) RoutingUpdate {
	if p == rt.localID || p == "" {
		return RoutingUpdate{Kind: UpdateRejected}
	}
	key := KeyForPeer(p)
	b := rt.bucket(rt.local.CommonPrefixLen(key), true)

	if e, ok := b.Get(p); ok {
		if addr != nil {
			e.addAddr(addr, rt.maxAddrs)
		}
		return RoutingUpdate{Kind: UpdateRefreshed}
	}

	if addr == nil {
		return RoutingUpdate{Kind: UpdateRejected}
	}

	var evicted peer.ID
	if b.Len() >= rt.bucketSize {
		evicted, _, _ = b.RemoveOldest()
	}
	e := &Entry{ID: p, Key: key}
	e.addAddr(addr, rt.maxAddrs)
	b.Add(p, e)
	return RoutingUpdate{Kind: UpdateAdded, Evicted: evicted}
}

// Remove 移除节点
func (rt *RoutingTable) Remove(p peer.ID) bool {
	b := rt.bucket(rt.local.CommonPrefixLen(KeyForPeer(p)), false)
	if b == nil {
		return false
	}
	return b.Remove(p)
}

// Find 查找节点，不改变最近见到顺序
func (rt *RoutingTable) Find(p peer.ID) (Entry, bool) {
	b := rt.bucket(rt.local.CommonPrefixLen(KeyForPeer(p)), false)
	if b == nil {
		return Entry{}, false
	}
	e, ok := b.Peek(p)
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Size 返回节点总数
func (rt *RoutingTable) Size() int {
	n := 0
	for _, b := range rt.buckets {
		if b != nil {
			n += b.Len()
		}
	}
	return n
}

// BucketLen 返回指定桶的节点数
func (rt *RoutingTable) BucketLen(cpl int) int {
	if cpl < 0 || cpl >= len(rt.buckets) || rt.buckets[cpl] == nil {
		return 0
	}
	return rt.buckets[cpl].Len()
}

// maxCommonPrefix 返回最近非空桶的下标，路由表为空时返回 -1
func (rt *RoutingTable) maxCommonPrefix() int {
	for i := len(rt.buckets) - 1; i >= 0; i-- {
		if rt.buckets[i] != nil && rt.buckets[i].Len() > 0 {
			return i
		}
	}
	return -1
}

// NearestPeers 返回距离 target 最近的 count 个节点
func (rt *RoutingTable) NearestPeers(target Key, count int) []Entry {
	var all []Entry
	for _, b := range rt.buckets {
		if b == nil {
			continue
		}
		for _, p := range b.Keys() {
			if e, ok := b.Peek(p); ok {
				all = append(all, e.clone())
			}
		}
	}
	return closestEntries(all, target, count)
}

// closestEntries 按与 target 的距离排序并截取前 count 个，不修改输入
func closestEntries(entries []Entry, target Key, count int) []Entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case target.Closer(a.Key, b.Key):
			return -1
		case target.Closer(b.Key, a.Key):
			return 1
		default:
			return 0
		}
	})
	if len(out) > count {
		out = out[:count]
	}
	return out
}
