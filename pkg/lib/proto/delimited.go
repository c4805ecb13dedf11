package proto

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrMessageTooLarge 消息长度超过上限
	ErrMessageTooLarge = errors.New("proto: message too large")

	// ErrVarintOverflow 长度前缀不是合法 varint
	ErrVarintOverflow = errors.New("proto: invalid length prefix")
)

// WriteDelimited 写入 varint 长度前缀的消息
//
// 前缀和消息体合并为一次写入。
func WriteDelimited(w io.Writer, msg []byte) error {
	buf := make([]byte, 0, protowire.SizeVarint(uint64(len(msg)))+len(msg))
	buf = protowire.AppendVarint(buf, uint64(len(msg)))
	buf = append(buf, msg...)
	_, err := w.Write(buf)
	return err
}

// ReadDelimited 读取 varint 长度前缀的消息
//
// 长度前缀逐字节读取，不会多读属于后续消息的数据。
func ReadDelimited(r io.Reader, maxSize int) ([]byte, error) {
	var prefix [binaryMaxVarintLen]byte
	var one [1]byte
	for i := 0; ; i++ {
		if i == len(prefix) {
			return nil, ErrVarintOverflow
		}
		if _, err := io.ReadFull(r, one[:]); err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		prefix[i] = one[0]
		if one[0] < 0x80 {
			break
		}
	}

	size, n := protowire.ConsumeVarint(prefix[:])
	if n < 0 {
		return nil, ErrVarintOverflow
	}
	if size > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, size, maxSize)
	}

	msg := make([]byte, size)
	if _, err := io.ReadFull(r, msg); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return msg, nil
}

const binaryMaxVarintLen = 10
