package protocolids

import (
	"errors"
	"fmt"
	"strings"

	"github.com/libp2p/go-libp2p/core/protocol"
)

// ============================================================================
// 连接层协议
// ============================================================================

// Noise libp2p-noise 安全协议
const Noise protocol.ID = "/noise"

// Yamux yamux 多路复用协议
const Yamux protocol.ID = "/yamux/1.0.0"

// ============================================================================
// 流层协议
// ============================================================================

// Identify 身份交换协议
const Identify protocol.ID = "/ipfs/id/1.0.0"

// DefaultKademlia 默认的 Kademlia DHT 协议
const DefaultKademlia protocol.ID = "/pathfinder/kad/1.0.0"

// ============================================================================
// 校验
// ============================================================================

var (
	// ErrEmptyProtocolID 协议 ID 为空
	ErrEmptyProtocolID = errors.New("protocol id is empty")

	// ErrInvalidProtocolID 协议 ID 格式错误
	ErrInvalidProtocolID = errors.New("invalid protocol id")
)

// Validate 校验协议 ID 格式
//
// 协议 ID 必须以 "/" 开头，不能包含空白字符或换行。
func Validate(id protocol.ID) error {
	s := string(id)
	if s == "" {
		return ErrEmptyProtocolID
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidProtocolID, s)
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidProtocolID, s)
	}
	return nil
}
