package muxer

import (
	"context"

	"github.com/libp2p/go-yamux/v5"
)

// Conn yamux 会话
type Conn struct {
	session *yamux.Session
}

// OpenStream 打开新流
func (c *Conn) OpenStream(ctx context.Context) (*Stream, error) {
	s, err := c.session.OpenStream(ctx)
	if err != nil {
		return nil, parseError(err)
	}
	return &Stream{stream: s}, nil
}

// AcceptStream 接受新流
func (c *Conn) AcceptStream() (*Stream, error) {
	s, err := c.session.AcceptStream()
	if err != nil {
		return nil, parseError(err)
	}
	return &Stream{stream: s}, nil
}

// Close 关闭会话及底层连接
func (c *Conn) Close() error {
	return c.session.Close()
}

// IsClosed 检查会话是否已关闭
func (c *Conn) IsClosed() bool {
	return c.session.IsClosed()
}

// CloseChan 会话关闭时关闭的通道
func (c *Conn) CloseChan() <-chan struct{} {
	return c.session.CloseChan()
}

// NumStreams 当前打开的流数量
func (c *Conn) NumStreams() int {
	return c.session.NumStreams()
}
