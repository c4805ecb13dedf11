package dht

import (
	"context"
	"fmt"
	"slices"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"google.golang.org/protobuf/proto"

	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/internal/core/upgrader"
	"github.com/dep2p/bootnode/pkg/lib/log"
	pbio "github.com/dep2p/bootnode/pkg/lib/proto"
	pb "github.com/dep2p/bootnode/pkg/lib/proto/kad"
)

// maxMessageSize 单条 DHT 消息上限
const maxMessageSize = 4 << 20

// ============================================================================
//                              迭代查找
// ============================================================================

type candidateState int

const (
	statePending candidateState = iota
	stateWaiting
	stateSucceeded
	stateFailed
)

type candidate struct {
	id    peer.ID
	key   Key
	addrs []ma.Multiaddr
	state candidateState
}

type lookupResult struct {
	c      *candidate
	closer []*pb.Peer
	err    error
}

// lookup 一次 FIND_NODE 迭代查找
//
// 只在发起它的后台任务中使用。
type lookup struct {
	k      *Kademlia
	target []byte
	key    Key
	peers  map[peer.ID]*candidate
}

func newLookup(k *Kademlia, target []byte, seeds []Entry) *lookup {
	l := &lookup{
		k:      k,
		target: target,
		key:    KeyForBytes(target),
		peers:  make(map[peer.ID]*candidate, len(seeds)),
	}
	for _, e := range seeds {
		l.peers[e.ID] = &candidate{id: e.ID, key: e.Key, addrs: e.Addrs}
	}
	return l
}

// closest 返回未失败的候选中最近的 K 个
func (l *lookup) closest() []*candidate {
	out := make([]*candidate, 0, len(l.peers))
	for _, c := range l.peers {
		if c.state != stateFailed {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *candidate) int {
		switch {
		case l.key.Closer(a.key, b.key):
			return -1
		case l.key.Closer(b.key, a.key):
			return 1
		default:
			return 0
		}
	})
	if len(out) > l.k.cfg.BucketSize {
		out = out[:l.k.cfg.BucketSize]
	}
	return out
}

// run 执行查找，直到最近的 K 个候选都已回应或失败
func (l *lookup) run(ctx context.Context) (succeeded, failed int) {
	results := make(chan lookupResult, l.k.cfg.Alpha)
	inflight := 0

	for {
		for _, c := range l.closest() {
			if inflight >= l.k.cfg.Alpha {
				break
			}
			if c.state != statePending {
				continue
			}
			c.state = stateWaiting
			inflight++
			l.k.host.Exec(func(ctx context.Context) {
				closer, err := l.k.findNode(ctx, c.id, c.addrs, l.target)
				results <- lookupResult{c: c, closer: closer, err: err}
			})
		}
		if inflight == 0 {
			return succeeded, failed
		}

		select {
		case r := <-results:
			inflight--
			if r.err != nil {
				r.c.state = stateFailed
				failed++
				logger.Debug("find node failed", "peer", log.TruncateID(r.c.id.String(), 8), "err", r.err)
				l.k.host.Notify(ctx, failedMsg{peer: r.c.id})
				continue
			}
			r.c.state = stateSucceeded
			succeeded++
			l.addCloser(r.closer)
		case <-ctx.Done():
			return succeeded, failed
		}
	}
}

func (l *lookup) addCloser(closer []*pb.Peer) {
	for _, p := range closer {
		id, err := peer.IDFromBytes(p.GetId())
		if err != nil || id == l.k.local {
			continue
		}
		if _, ok := l.peers[id]; ok {
			continue
		}
		var addrs []ma.Multiaddr
		for _, raw := range p.GetAddrs() {
			if a, err := ma.NewMultiaddrBytes(raw); err == nil {
				addrs = append(addrs, a)
			}
		}
		if len(addrs) == 0 {
			continue
		}
		l.peers[id] = &candidate{id: id, key: KeyForPeer(id), addrs: addrs}
	}
}

// ============================================================================
//                              请求
// ============================================================================

// findNode 向节点发送 FIND_NODE，成功时把回应者送回事件循环
func (k *Kademlia) findNode(ctx context.Context, p peer.ID, addrs []ma.Multiaddr, target []byte) ([]*pb.Peer, error) {
	if err := k.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer k.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, k.cfg.RequestTimeout)
	defer cancel()

	resp, remote, err := k.sendRequest(ctx, p, addrs, &pb.Message{Type: pb.MessageType_FIND_NODE, Key: target})
	if err != nil {
		return nil, err
	}
	k.host.Notify(ctx, respondedMsg{peer: p, addr: remote})
	return resp.GetCloserPeers(), nil
}

// sendRequest 打开 DHT 流，发送一条请求并读取响应
//
// 返回的地址只在连接由本节点拨出时非空；入站连接的远端地址是对方的临时源端口，不可拨号。
func (k *Kademlia) sendRequest(ctx context.Context, p peer.ID, addrs []ma.Multiaddr, req *pb.Message) (*pb.Message, ma.Multiaddr, error) {
	s, err := k.host.NewStream(ctx, p, addrs, k.cfg.Protocol)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()
	if d, ok := ctx.Deadline(); ok {
		_ = s.SetDeadline(d)
	}

	out, err := proto.Marshal(req)
	if err != nil {
		s.Reset()
		return nil, nil, err
	}
	if err := pbio.WriteDelimited(s, out); err != nil {
		s.Reset()
		return nil, nil, fmt.Errorf("write request: %w", err)
	}
	data, err := pbio.ReadDelimited(s, maxMessageSize)
	if err != nil {
		s.Reset()
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	var resp pb.Message
	if err := proto.Unmarshal(data, &resp); err != nil {
		return nil, nil, err
	}
	if resp.GetType() != req.GetType() {
		return nil, nil, fmt.Errorf("%w: got %s, want %s", ErrInvalidResponse, resp.GetType(), req.GetType())
	}
	return &resp, dialedAddr(s), nil
}

func dialedAddr(s *swarm.Stream) ma.Multiaddr {
	if s.Direction() != upgrader.DirOutbound {
		return nil
	}
	return s.RemoteMultiaddr()
}
