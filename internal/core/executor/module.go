package executor

import (
	"context"

	"go.uber.org/fx"
)

// ProvideGroup 提供任务组，并在应用停止时关闭
func ProvideGroup(lc fx.Lifecycle) *Group {
	g := NewGroup(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return g.Close()
		},
	})
	return g
}

// Module 返回 fx 模块配置
//
// 同时提供 *Group 和 Executor，Executor 绑定到同一个实例。
func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			ProvideGroup,
			func(g *Group) Executor { return g },
		),
	)
}
