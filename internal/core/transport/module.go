package transport

import (
	"go.uber.org/fx"

	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/muxer"
	"github.com/dep2p/bootnode/internal/core/security/noise"
	"github.com/dep2p/bootnode/internal/core/transport/tcp"
	"github.com/dep2p/bootnode/internal/core/upgrader"
)

// ============================================================================
//                              服务提供
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Identity *identity.Identity
	// TCP 配置（可选，使用默认配置）
	TCPConfig *tcp.Config `optional:"true"`
}

// ProvideStack 组合传输栈
func ProvideStack(input ModuleInput) (*Stack, error) {
	tcpCfg := tcp.DefaultConfig()
	if input.TCPConfig != nil {
		tcpCfg = *input.TCPConfig
	}

	sec, err := noise.New(input.Identity.PrivateKey())
	if err != nil {
		return nil, err
	}
	up, err := upgrader.New(sec, muxer.NewTransport(nil))
	if err != nil {
		return nil, err
	}
	return NewStack(tcp.NewTransport(tcpCfg), up), nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("transport",
		fx.Provide(ProvideStack),
	)
}
