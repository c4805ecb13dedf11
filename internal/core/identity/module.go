package identity

import (
	"go.uber.org/fx"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// Config 身份模块配置
type Config struct {
	// Path 身份文件路径，为空时生成临时身份
	Path string
}

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config Config
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideIdentity 提供节点身份
func ProvideIdentity(input ModuleInput) (*Identity, error) {
	id, err := Load(input.Config.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded identity", "peer_id", id.ID().String())
	return id, nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(ProvideIdentity),
	)
}
