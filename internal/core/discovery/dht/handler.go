package dht

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"google.golang.org/protobuf/proto"

	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/pkg/lib/log"
	pbio "github.com/dep2p/bootnode/pkg/lib/proto"
	pb "github.com/dep2p/bootnode/pkg/lib/proto/kad"
)

// streamIdleTimeout 入站流两次请求之间的最长空闲时间
const streamIdleTimeout = time.Minute

// HandleStream 处理入站 DHT 流
//
// 一条流上可以连续发送多个请求。
func (k *Kademlia) HandleStream(ctx context.Context, s *swarm.Stream) {
	defer s.Close()
	remote := s.RemotePeer()

	for {
		_ = s.SetReadDeadline(time.Now().Add(streamIdleTimeout))
		data, err := pbio.ReadDelimited(s, maxMessageSize)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("read request failed", "peer", log.TruncateID(remote.String(), 8), "err", err)
				s.Reset()
			}
			return
		}

		var req pb.Message
		if err := proto.Unmarshal(data, &req); err != nil {
			logger.Debug("malformed request", "peer", log.TruncateID(remote.String(), 8), "err", err)
			s.Reset()
			return
		}
		k.host.Notify(ctx, inboundMsg{from: remote, typ: req.GetType()})

		resp, err := k.handleRequest(ctx, remote, &req)
		if err != nil {
			logger.Debug("request refused", "peer", log.TruncateID(remote.String(), 8), "type", req.GetType().String(), "err", err)
			s.Reset()
			return
		}

		out, err := proto.Marshal(resp)
		if err != nil {
			s.Reset()
			return
		}
		_ = s.SetWriteDeadline(time.Now().Add(k.cfg.RequestTimeout))
		if err := pbio.WriteDelimited(s, out); err != nil {
			s.Reset()
			return
		}
	}
}

func (k *Kademlia) handleRequest(ctx context.Context, from peer.ID, req *pb.Message) (*pb.Message, error) {
	switch req.GetType() {
	case pb.MessageType_PING:
		return &pb.Message{Type: pb.MessageType_PING}, nil

	case pb.MessageType_FIND_NODE, pb.MessageType_GET_VALUE, pb.MessageType_GET_PROVIDERS:
		closer, err := k.closestPeers(ctx, from, KeyForBytes(req.GetKey()))
		if err != nil {
			return nil, err
		}
		return &pb.Message{
			Type:            req.GetType(),
			Key:             req.GetKey(),
			ClusterLevelRaw: req.GetClusterLevelRaw(),
			CloserPeers:     closer,
		}, nil

	default:
		// 本节点不存储记录
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRequest, req.GetType())
	}
}

// closestPeers 通过事件循环读取路由表
func (k *Kademlia) closestPeers(ctx context.Context, from peer.ID, key Key) ([]*pb.Peer, error) {
	reply := make(chan []Entry, 1)
	if !k.host.Notify(ctx, closestRequest{from: from, key: key, reply: reply}) {
		return nil, context.Canceled
	}

	var entries []Entry
	select {
	case entries = <-reply:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	out := make([]*pb.Peer, 0, len(entries))
	for _, e := range entries {
		p := &pb.Peer{Id: []byte(e.ID), Connection: pb.ConnectionType_NOT_CONNECTED}
		if k.host.IsConnected(e.ID) {
			p.Connection = pb.ConnectionType_CONNECTED
		}
		for _, a := range e.Addrs {
			p.Addrs = append(p.Addrs, a.Bytes())
		}
		out = append(out, p)
	}
	return out, nil
}
