package swarm

import (
	"errors"
	"fmt"

	ma "github.com/multiformats/go-multiaddr"
)

var (
	// ErrSwarmClosed Swarm 已关闭
	ErrSwarmClosed = errors.New("swarm closed")

	// ErrNoAddresses 没有可用地址
	ErrNoAddresses = errors.New("no addresses")

	// ErrDialToSelf 尝试拨号自己
	ErrDialToSelf = errors.New("dial to self attempted")
)

// BindError 监听地址绑定失败
//
// 启动阶段的致命错误。
type BindError struct {
	Addr ma.Multiaddr
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("listen on %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// DialError 拨号错误，包含每个地址的错误
type DialError struct {
	Peer   string
	Errors []error
}

func (e *DialError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("failed to dial %s: unknown error", e.Peer)
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("failed to dial %s: %v", e.Peer, e.Errors[0])
	}
	return fmt.Sprintf("failed to dial %s: %d errors: %v", e.Peer, len(e.Errors), e.Errors)
}

// Unwrap 返回所有地址的错误
func (e *DialError) Unwrap() []error {
	return e.Errors
}
