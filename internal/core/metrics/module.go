package metrics

import (
	"context"

	"go.uber.org/fx"
)

// Config 指标配置
type Config struct {
	// ListenAddr /metrics 监听地址，为空时不启动 HTTP 服务
	ListenAddr string
}

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	LC     fx.Lifecycle
	Config Config `optional:"true"`
}

// ProvideMetrics 创建指标，按配置启动 HTTP 服务
func ProvideMetrics(input ModuleInput) *Metrics {
	m := New()
	if input.Config.ListenAddr == "" {
		return m
	}

	var srv *Server
	input.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var err error
			srv, err = m.Listen(input.Config.ListenAddr)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			return srv.Shutdown(ctx)
		},
	})
	return m
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
	)
}
