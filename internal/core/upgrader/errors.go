package upgrader

import "errors"

var (
	// ErrNilSecurity 未配置安全传输
	ErrNilSecurity = errors.New("upgrader: security transport is nil")

	// ErrNilMuxer 未配置多路复用器
	ErrNilMuxer = errors.New("upgrader: stream muxer is nil")
)
