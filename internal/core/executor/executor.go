// Package executor 提供后台任务调度
//
// 握手、流处理、DHT 查询等后台工作都通过 Executor 提交，
// 组件只依赖接口，启动时绑定唯一的实现。
package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/executor")

// Executor 后台任务调度接口
type Executor interface {
	// Exec 在后台执行任务
	//
	// 任务收到的 ctx 在调度器关闭时取消。调度器关闭后提交的任务被丢弃。
	Exec(task func(ctx context.Context))
}

// ============================================================================
//                              Group 实现
// ============================================================================

// Group 基于 errgroup 的 Executor 实现
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group

	mu     sync.RWMutex
	closed bool
}

var _ Executor = (*Group)(nil)

// NewGroup 创建任务组
func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	eg, ctx := errgroup.WithContext(ctx)
	return &Group{
		ctx:    ctx,
		cancel: cancel,
		eg:     eg,
	}
}

// Exec 实现 Executor
func (g *Group) Exec(task func(ctx context.Context)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return
	}
	g.eg.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("task panicked", "panic", r)
			}
		}()
		task(g.ctx)
		return nil
	})
}

// Close 取消所有任务并等待退出
func (g *Group) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	return g.eg.Wait()
}
