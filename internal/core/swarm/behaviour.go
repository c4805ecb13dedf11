package swarm

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
)

// Host 行为层使用的网络能力
//
// 所有方法都可以在后台任务中调用。
type Host interface {
	// ID 返回本地节点 ID
	ID() peer.ID

	// ListenAddrs 返回对外通告的监听地址
	ListenAddrs() []ma.Multiaddr

	// NewStream 打开到节点的流并协商协议
	//
	// 已有连接时复用，否则依次拨号 addrs。
	NewStream(ctx context.Context, p peer.ID, addrs []ma.Multiaddr, proto protocol.ID) (*Stream, error)

	// IsConnected 判断是否与节点有连接
	IsConnected(p peer.ID) bool

	// Notify 向事件循环投递消息，由行为层的 OnMessage 处理
	//
	// 只能在后台任务中调用，在事件循环中调用可能阻塞。
	Notify(ctx context.Context, msg any) bool

	// Exec 在后台执行任务
	Exec(task func(ctx context.Context))
}

// NetworkBehaviour 网络行为
//
// HandleStream 在后台任务中调用；其余回调在事件循环中调用，
// 行为层在这些回调中修改自身状态不需要加锁。
type NetworkBehaviour[E any] interface {
	// Init 绑定 Host，在 swarm 创建时调用一次
	Init(h Host)

	// Protocols 返回行为层处理的流协议
	Protocols() []protocol.ID

	// HandleStream 处理已协商协议的入站流
	HandleStream(ctx context.Context, s *Stream)

	// OnConnectionEstablished 连接建立
	OnConnectionEstablished(info ConnInfo)

	// OnConnectionClosed 连接关闭
	OnConnectionClosed(info ConnInfo)

	// OnMessage 处理后台任务通过 Host.Notify 投递的消息
	//
	// 返回 true 时产生一个 BehaviourEvent。
	OnMessage(msg any) (E, bool)
}
