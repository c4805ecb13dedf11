package muxer

import (
	"time"

	"github.com/libp2p/go-yamux/v5"
)

// Stream yamux 逻辑流
type Stream struct {
	stream *yamux.Stream
}

// Read 从流中读取数据
func (s *Stream) Read(p []byte) (n int, err error) {
	n, err = s.stream.Read(p)
	return n, parseError(err)
}

// Write 向流中写入数据
func (s *Stream) Write(p []byte) (n int, err error) {
	n, err = s.stream.Write(p)
	return n, parseError(err)
}

// Close 关闭流（正常关闭）
func (s *Stream) Close() error {
	return s.stream.Close()
}

// CloseWrite 关闭写端
func (s *Stream) CloseWrite() error {
	return s.stream.CloseWrite()
}

// CloseRead 关闭读端
func (s *Stream) CloseRead() error {
	return s.stream.CloseRead()
}

// Reset 重置流（异常关闭）
func (s *Stream) Reset() error {
	return s.stream.Reset()
}

// SetDeadline 设置读写截止时间
func (s *Stream) SetDeadline(t time.Time) error {
	return s.stream.SetDeadline(t)
}

// SetReadDeadline 设置读截止时间
func (s *Stream) SetReadDeadline(t time.Time) error {
	return s.stream.SetReadDeadline(t)
}

// SetWriteDeadline 设置写截止时间
func (s *Stream) SetWriteDeadline(t time.Time) error {
	return s.stream.SetWriteDeadline(t)
}
