package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/bootnode/pkg/protocolids"
)

// StatusInterval 状态报告周期，与引导周期无关
const StatusInterval = 5 * time.Second

var (
	// ErrMissingListenAddr 未配置监听地址
	ErrMissingListenAddr = errors.New("listen address is required")

	// ErrInvalidBootstrapInterval 引导周期不是正数
	ErrInvalidBootstrapInterval = errors.New("bootstrap interval must be a positive number of seconds")
)

// ConfigError 启动配置错误
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config 节点配置
type Config struct {
	// IdentityPath 身份文件路径，为空时生成临时身份
	IdentityPath string

	// ListenOn 监听并通告的地址
	ListenOn ma.Multiaddr

	// BootstrapInterval 引导周期
	BootstrapInterval time.Duration

	// KadProtocol DHT 协议 ID
	KadProtocol protocol.ID

	// MetricsListen /metrics 监听地址，为空时不启动
	MetricsListen string

	// AgentVersion identify 通告的代理版本
	AgentVersion string
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.ListenOn == nil || len(c.ListenOn.Bytes()) == 0 {
		return &ConfigError{Field: "listen address", Err: ErrMissingListenAddr}
	}
	if c.BootstrapInterval <= 0 {
		return &ConfigError{Field: "bootstrap interval", Err: ErrInvalidBootstrapInterval}
	}
	if c.KadProtocol == "" {
		c.KadProtocol = protocolids.DefaultKademlia
	}
	if err := protocolids.Validate(c.KadProtocol); err != nil {
		return &ConfigError{Field: "kad protocol", Err: err}
	}
	return nil
}
