package muxer

import (
	"errors"
	"fmt"
	"os"

	"github.com/libp2p/go-yamux/v5"
)

var (
	// ErrStreamReset 流被本端或远端重置
	ErrStreamReset = errors.New("muxer: stream reset")

	// ErrStreamClosed 写端已关闭
	ErrStreamClosed = errors.New("muxer: stream closed")

	// ErrConnClosed 会话已关闭（本端关闭、远端 GoAway 或 keepalive 超时）
	ErrConnClosed = errors.New("muxer: connection closed")
)

// parseError 把 yamux 错误映射为本包的错误
//
// 原始错误保留在链中。读写截止时间到达时返回 os.ErrDeadlineExceeded，
// 与 net.Conn 的约定一致。
func parseError(err error) error {
	switch {
	case err == nil:
		return nil
	// GoAway 也满足 yamux.ErrStreamReset，先判断会话关闭
	case errors.Is(err, yamux.ErrSessionShutdown),
		errors.Is(err, yamux.ErrRemoteGoAway),
		errors.Is(err, yamux.ErrKeepAliveTimeout):
		return fmt.Errorf("%w: %w", ErrConnClosed, err)
	case errors.Is(err, yamux.ErrStreamReset):
		return fmt.Errorf("%w: %w", ErrStreamReset, err)
	case errors.Is(err, yamux.ErrTimeout):
		return fmt.Errorf("%w: %w", os.ErrDeadlineExceeded, err)
	case errors.Is(err, yamux.ErrStreamClosed):
		return fmt.Errorf("%w: %w", ErrStreamClosed, err)
	}
	return err
}
