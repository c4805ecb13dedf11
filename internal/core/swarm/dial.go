package swarm

import (
	"context"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	mss "github.com/multiformats/go-multistream"

	"github.com/dep2p/bootnode/internal/core/muxer"
)

// ============================================================================
//                              拨号
// ============================================================================

// DialPeer 拨号到节点，已有连接时直接返回
func (s *Swarm[E]) DialPeer(ctx context.Context, p peer.ID, addrs []ma.Multiaddr) error {
	_, err := s.connect(ctx, p, addrs)
	return err
}

func (s *Swarm[E]) connect(ctx context.Context, p peer.ID, addrs []ma.Multiaddr) (*trackedConn, error) {
	if s.closed.Load() {
		return nil, ErrSwarmClosed
	}
	if p == s.localPeer {
		return nil, ErrDialToSelf
	}
	if tc := s.bestConn(p); tc != nil {
		return tc, nil
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoAddresses, p)
	}

	dialErr := &DialError{Peer: p.String()}
	for _, addr := range addrs {
		if !s.stack.CanDial(addr) {
			continue
		}
		if !s.emit(Dialing{PeerID: p, Addr: addr}) {
			return nil, ErrSwarmClosed
		}

		c, err := s.stack.Dial(ctx, addr, p)
		if err != nil {
			s.emit(OutgoingConnectionError{PeerID: p, Addr: addr, Err: err})
			dialErr.Errors = append(dialErr.Errors, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		tc, ok := s.startConn(c)
		if !ok {
			return nil, ErrSwarmClosed
		}
		return tc, nil
	}
	if len(dialErr.Errors) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoAddresses, p)
	}
	return nil, dialErr
}

// ============================================================================
//                              流
// ============================================================================

// NewStream 打开到节点的流并协商协议
func (s *Swarm[E]) NewStream(ctx context.Context, p peer.ID, addrs []ma.Multiaddr, proto protocol.ID) (*Stream, error) {
	tc, err := s.connect(ctx, p, addrs)
	if err != nil {
		return nil, err
	}

	ms, err := tc.OpenStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	if err := s.withNegotiateDeadline(ctx, ms, func() error {
		return mss.SelectProtoOrFail(proto, ms)
	}); err != nil {
		ms.Reset()
		return nil, fmt.Errorf("negotiate %s: %w", proto, err)
	}

	return &Stream{Stream: ms, protocol: proto, conn: tc.Conn}, nil
}

// handleInboundStream 协商入站流协议并交给行为层
func (s *Swarm[E]) handleInboundStream(ctx context.Context, tc *trackedConn, ms *muxer.Stream) {
	var proto protocol.ID
	err := s.withNegotiateDeadline(ctx, ms, func() error {
		var err error
		proto, _, err = s.protocols.Negotiate(ms)
		return err
	})
	if err != nil {
		logger.Debug("inbound stream negotiation failed", "peer", tc.RemotePeer().String(), "err", err)
		ms.Reset()
		return
	}

	s.behaviour.HandleStream(ctx, &Stream{Stream: ms, protocol: proto, conn: tc.Conn})
}

func (s *Swarm[E]) withNegotiateDeadline(ctx context.Context, ms *muxer.Stream, fn func() error) error {
	deadline := time.Now().Add(s.config.NegotiateTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ms.SetDeadline(deadline); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return ms.SetDeadline(time.Time{})
}
