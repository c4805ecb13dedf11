package dht

import "errors"

var (
	// ErrNoKnownPeers 路由表为空，无法引导
	ErrNoKnownPeers = errors.New("dht: no known peers")

	// ErrInvalidResponse 响应类型与请求不符
	ErrInvalidResponse = errors.New("dht: invalid response")

	// ErrUnsupportedRequest 不处理的请求类型
	ErrUnsupportedRequest = errors.New("dht: unsupported request")
)
