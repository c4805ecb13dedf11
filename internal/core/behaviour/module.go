package behaviour

import (
	"github.com/libp2p/go-libp2p/core/protocol"
	"go.uber.org/fx"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
)

// Config 组合行为配置
type Config struct {
	// AgentVersion identify 通告的代理版本
	AgentVersion string

	// KadProtocol DHT 协议 ID
	KadProtocol protocol.ID
}

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Identity *identity.Identity
	Config   Config
}

// ProvideBootstrap 创建组合行为
func ProvideBootstrap(input ModuleInput) *Bootstrap {
	kadCfg := dht.DefaultConfig()
	if input.Config.KadProtocol != "" {
		kadCfg.Protocol = input.Config.KadProtocol
	}
	kad := dht.New(kadCfg, input.Identity.ID())

	idCfg := identify.DefaultConfig()
	if input.Config.AgentVersion != "" {
		idCfg.AgentVersion = input.Config.AgentVersion
	}
	idCfg.Protocols = []protocol.ID{identify.ProtocolID, kad.Protocol()}

	return New(identify.New(idCfg, input.Identity.PrivateKey()), kad)
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("behaviour",
		fx.Provide(ProvideBootstrap),
	)
}
