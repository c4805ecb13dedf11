package app

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/bootnode/internal/core/behaviour"
	"github.com/dep2p/bootnode/internal/core/executor"
	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/metrics"
	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/internal/core/transport"
)

// ============================================================================
//                              服务提供
// ============================================================================

// SwarmInput swarm 依赖
type SwarmInput struct {
	fx.In

	LC        fx.Lifecycle
	Identity  *identity.Identity
	Stack     *transport.Stack
	Executor  executor.Executor
	Behaviour *behaviour.Bootstrap
}

// ProvideSwarm 创建 swarm，应用停止时关闭
//
// swarm 依赖 Executor，停止时先于 Executor 关闭。
func ProvideSwarm(input SwarmInput) *Swarm {
	s := swarm.New[behaviour.Event](
		swarm.DefaultConfig(),
		input.Identity.ID(),
		input.Stack,
		input.Executor,
		input.Behaviour,
	)
	input.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := s.Close(); err != nil && !errors.Is(err, swarm.ErrSwarmClosed) {
				return err
			}
			return nil
		},
	})
	return s
}

// LoopInput 事件循环依赖
type LoopInput struct {
	fx.In

	Config    Config
	Swarm     *Swarm
	Behaviour *behaviour.Bootstrap
	Metrics   *metrics.Metrics
	Clock     clock.Clock
}

// ProvideLoop 创建事件循环
func ProvideLoop(input LoopInput) *Loop {
	return NewLoop(input.Swarm, input.Behaviour, input.Metrics, input.Clock, input.Config.BootstrapInterval)
}

// runLoop 启动时绑定监听地址并运行事件循环
func runLoop(lc fx.Lifecycle, cfg Config, id *identity.Identity, s *Swarm, loop *Loop) {
	var (
		cancel context.CancelFunc
		done   = make(chan struct{})
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting up", "peer_id", id.ID().String())
			if err := s.Listen(cfg.ListenOn); err != nil {
				return err
			}

			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				_ = loop.Run(ctx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel == nil {
				return nil
			}
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

// ============================================================================
//                              模块
// ============================================================================

// Module 返回引导节点的 fx 模块配置
func Module(cfg Config) fx.Option {
	return fx.Options(
		fx.Supply(
			cfg,
			identity.Config{Path: cfg.IdentityPath},
			behaviour.Config{AgentVersion: cfg.AgentVersion, KadProtocol: cfg.KadProtocol},
			metrics.Config{ListenAddr: cfg.MetricsListen},
		),
		fx.Provide(func() clock.Clock { return clock.New() }),

		identity.Module(),
		executor.Module(),
		transport.Module(),
		behaviour.Module(),
		metrics.Module(),

		fx.Module("app",
			fx.Provide(ProvideSwarm, ProvideLoop),
			fx.Invoke(runLoop),
		),
	)
}

// New 校验配置并创建应用
//
// 身份加载失败时返回错误，此时还没有绑定任何监听地址。
func New(cfg Config, opts ...fx.Option) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := fx.New(
		Module(cfg),
		fx.Options(opts...),
		// 禁用 Fx 日志输出
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}
