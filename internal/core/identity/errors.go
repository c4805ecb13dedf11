package identity

import (
	"errors"
	"fmt"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNilPrivateKey 私钥为 nil
	ErrNilPrivateKey = errors.New("private key is nil")

	// ErrMissingPrivateKey 身份文件缺少 private_key 字段
	ErrMissingPrivateKey = errors.New("private_key is missing")

	// ErrInvalidSecret private_key 字段不是合法的 JSON 字符串
	ErrInvalidSecret = errors.New("private_key must be a JSON string")
)

// ConfigError 身份配置错误
//
// 读取、解析或解码身份文件失败时返回，启动阶段视为致命错误。
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("identity config %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
