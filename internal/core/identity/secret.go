package identity

import (
	"bytes"
	"runtime"
)

// secret 私钥相关的敏感字节
//
// 直接从 JSON 原始字节复制，不经过 string，可以被 Wipe 清零。
type secret []byte

// UnmarshalJSON 实现 json.Unmarshaler
func (s *secret) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrInvalidSecret
	}
	raw := data[1 : len(data)-1]

	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		// base64 只可能出现 "\/" 转义
		if i+1 >= len(raw) || raw[i+1] != '/' {
			clear(out)
			return ErrInvalidSecret
		}
		out = append(out, '/')
		i++
	}
	*s = out
	return nil
}

// Wipe 清零
func (s secret) Wipe() {
	wipe(s)
}

// wipe 清零字节切片
func wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
