package tcp

import "errors"

var (
	// ErrUnsupportedAddr 地址不是 TCP 地址
	ErrUnsupportedAddr = errors.New("tcp: unsupported address")

	// ErrNoResolvedAddrs 名称解析没有返回可用地址
	ErrNoResolvedAddrs = errors.New("tcp: name resolved to no usable address")
)
