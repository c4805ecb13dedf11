package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/libp2p/go-libp2p/core/protocol"
	mss "github.com/multiformats/go-multistream"
)

const (
	// defaultNegotiateTimeout 默认协商超时
	defaultNegotiateTimeout = 60 * time.Second
)

// negotiate 在连接上协商单个协议
//
// 服务器端使用 MultistreamMuxer.Negotiate()，客户端使用 SelectProtoOrFail()。
func negotiate(ctx context.Context, conn net.Conn, proto protocol.ID, isServer bool) error {
	deadline := time.Now().Add(defaultNegotiateTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{})

	if isServer {
		muxer := mss.NewMultistreamMuxer[protocol.ID]()
		muxer.AddHandler(proto, nil)
		if _, _, err := muxer.Negotiate(conn); err != nil {
			return fmt.Errorf("server negotiation of %s: %w", proto, err)
		}
		return nil
	}

	if err := mss.SelectProtoOrFail(proto, conn); err != nil {
		return fmt.Errorf("client negotiation of %s: %w", proto, err)
	}
	return nil
}
