package swarm

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/bootnode/internal/core/executor"
	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/transport"
)

const echoProtocol = protocol.ID("/test/echo/1.0.0")

// ============================================================================
//                              测试辅助
// ============================================================================

type fakeBehaviour struct {
	host Host

	mu          sync.Mutex
	established []ConnInfo
	closed      []ConnInfo
}

func (b *fakeBehaviour) Init(h Host) { b.host = h }

func (b *fakeBehaviour) Protocols() []protocol.ID {
	return []protocol.ID{echoProtocol}
}

func (b *fakeBehaviour) HandleStream(_ context.Context, s *Stream) {
	defer s.Close()
	_, _ = io.Copy(s, s)
}

func (b *fakeBehaviour) OnConnectionEstablished(info ConnInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.established = append(b.established, info)
}

func (b *fakeBehaviour) OnConnectionClosed(info ConnInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = append(b.closed, info)
}

func (b *fakeBehaviour) OnMessage(msg any) (string, bool) {
	s, ok := msg.(string)
	return s, ok
}

func (b *fakeBehaviour) numEstablished() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.established)
}

func (b *fakeBehaviour) numClosed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.closed)
}

// harness 运行一个最小事件循环
type harness struct {
	s     *Swarm[string]
	b     *fakeBehaviour
	out   chan Event
	query chan chan NetworkInfo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	id, err := identity.Generate()
	require.NoError(t, err)
	stack, err := transport.ProvideStack(transport.ModuleInput{Identity: id})
	require.NoError(t, err)

	exec := executor.NewGroup(context.Background())
	b := &fakeBehaviour{}
	h := &harness{
		s:     New[string](DefaultConfig(), id.ID(), stack, exec, b),
		b:     b,
		out:   make(chan Event, 1024),
		query: make(chan chan NetworkInfo),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.loop(ctx)
	}()

	// 先关闭 swarm，再停止后台任务
	t.Cleanup(func() {
		_ = h.s.Close()
		cancel()
		<-done
		_ = exec.Close()
	})
	return h
}

func (h *harness) loop(ctx context.Context) {
	for {
		select {
		case ev := <-h.s.Events():
			if out, ok := h.s.Process(ev); ok {
				select {
				case h.out <- out:
				default:
				}
			}
		case reply := <-h.query:
			reply <- h.s.NetworkInfo()
		case <-ctx.Done():
			return
		}
	}
}

func (h *harness) info() NetworkInfo {
	reply := make(chan NetworkInfo, 1)
	h.query <- reply
	return <-reply
}

func (h *harness) listen(t *testing.T) {
	t.Helper()
	require.NoError(t, h.s.Listen(ma.StringCast("/ip4/127.0.0.1/tcp/0")))
}

func waitEvent[T Event](t *testing.T, h *harness) T {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev := <-h.out:
			if e, ok := ev.(T); ok {
				return e
			}
		case <-timeout:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

// ============================================================================
//                              监听
// ============================================================================

func TestSwarm_Listen(t *testing.T) {
	h := newHarness(t)
	h.listen(t)

	ev := waitEvent[NewListenAddr](t, h)
	addrs := h.s.ListenAddrs()
	require.Len(t, addrs, 1)
	assert.True(t, ev.Addr.Equal(addrs[0]))
	assert.True(t, manet.IsIPLoopback(addrs[0]))
}

func TestSwarm_ListenUnspecified(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Listen(ma.StringCast("/ip4/0.0.0.0/tcp/0")))

	addrs := h.s.ListenAddrs()
	require.NotEmpty(t, addrs)
	for _, a := range addrs {
		assert.False(t, manet.IsIPUnspecified(a), a.String())
	}
}

func TestSwarm_ListenBindError(t *testing.T) {
	first := newHarness(t)
	first.listen(t)
	occupied := first.s.ListenAddrs()[0]

	second := newHarness(t)
	err := second.s.Listen(occupied)
	require.Error(t, err)

	var bindErr *BindError
	require.True(t, errors.As(err, &bindErr))
	assert.True(t, occupied.Equal(bindErr.Addr))
}

func TestSwarm_ListenAfterClose(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Close())
	assert.ErrorIs(t, h.s.Listen(ma.StringCast("/ip4/127.0.0.1/tcp/0")), ErrSwarmClosed)
}

// ============================================================================
//                              连接与流
// ============================================================================

func TestSwarm_StreamEcho(t *testing.T) {
	server := newHarness(t)
	client := newHarness(t)
	server.listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := client.s.NewStream(ctx, server.s.ID(), server.s.ListenAddrs(), echoProtocol)
	require.NoError(t, err)
	assert.Equal(t, echoProtocol, s.Protocol())
	assert.Equal(t, server.s.ID(), s.RemotePeer())

	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, s.CloseWrite())
	got, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	est := waitEvent[ConnectionEstablished](t, client)
	assert.Equal(t, server.s.ID(), est.PeerID)
	assert.Equal(t, 1, est.NumEstablished)

	inbound := waitEvent[ConnectionEstablished](t, server)
	assert.Equal(t, client.s.ID(), inbound.PeerID)

	assert.True(t, client.s.IsConnected(server.s.ID()))
	assert.Eventually(t, func() bool {
		return client.info() == NetworkInfo{NumPeers: 1, NumEstablished: 1}
	}, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool {
		return server.info() == NetworkInfo{NumPeers: 1, NumEstablished: 1}
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, client.b.numEstablished())
}

func TestSwarm_ReuseConnection(t *testing.T) {
	server := newHarness(t)
	client := newHarness(t)
	server.listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		s, err := client.s.NewStream(ctx, server.s.ID(), server.s.ListenAddrs(), echoProtocol)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}
	// 已有连接时不需要地址
	s, err := client.s.NewStream(ctx, server.s.ID(), nil, echoProtocol)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Eventually(t, func() bool {
		return client.info().NumEstablished == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSwarm_UnsupportedProtocol(t *testing.T) {
	server := newHarness(t)
	client := newHarness(t)
	server.listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := client.s.NewStream(ctx, server.s.ID(), server.s.ListenAddrs(), "/test/unknown/1.0.0")
	assert.Error(t, err)
}

func TestSwarm_ConnectionClosed(t *testing.T) {
	server := newHarness(t)
	client := newHarness(t)
	server.listen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, client.s.DialPeer(ctx, server.s.ID(), server.s.ListenAddrs()))
	waitEvent[ConnectionEstablished](t, server)

	require.NoError(t, client.s.Close())

	closed := waitEvent[ConnectionClosed](t, server)
	assert.Equal(t, client.s.ID(), closed.PeerID)
	assert.Equal(t, 0, closed.NumEstablished)
	assert.Equal(t, 1, server.b.numClosed())
	assert.Eventually(t, func() bool {
		return server.info() == NetworkInfo{}
	}, 5*time.Second, 20*time.Millisecond)
}

// ============================================================================
//                              拨号错误
// ============================================================================

func TestSwarm_DialErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.s.DialPeer(ctx, h.s.ID(), nil), ErrDialToSelf)

	other, err := identity.Generate()
	require.NoError(t, err)
	assert.ErrorIs(t, h.s.DialPeer(ctx, other.ID(), nil), ErrNoAddresses)

	// 不支持的地址视为没有可用地址
	udp := ma.StringCast("/ip4/127.0.0.1/udp/4001")
	assert.ErrorIs(t, h.s.DialPeer(ctx, other.ID(), []ma.Multiaddr{udp}), ErrNoAddresses)
}

func TestSwarm_DialRefused(t *testing.T) {
	target := newHarness(t)
	target.listen(t)
	addr := target.s.ListenAddrs()[0]
	targetID := target.s.ID()
	require.NoError(t, target.s.Close())

	h := newHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := h.s.DialPeer(ctx, targetID, []ma.Multiaddr{addr})
	var dialErr *DialError
	require.True(t, errors.As(err, &dialErr))
	assert.Len(t, dialErr.Errors, 1)

	dialing := waitEvent[Dialing](t, h)
	assert.Equal(t, targetID, dialing.PeerID)
	failed := waitEvent[OutgoingConnectionError](t, h)
	assert.Equal(t, targetID, failed.PeerID)
	assert.Error(t, failed.Err)

	assert.Eventually(t, func() bool {
		return h.info() == NetworkInfo{}
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSwarm_DialWrongPeer(t *testing.T) {
	server := newHarness(t)
	client := newHarness(t)
	server.listen(t)

	other, err := identity.Generate()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.s.DialPeer(ctx, other.ID(), server.s.ListenAddrs())
	require.Error(t, err)
	assert.False(t, client.s.IsConnected(server.s.ID()))

	// 服务端看到失败的入站连接
	inErr := waitEvent[IncomingConnectionError](t, server)
	assert.Error(t, inErr.Err)
}

// ============================================================================
//                              行为层消息
// ============================================================================

func TestSwarm_NotifyProducesBehaviourEvent(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.s.Notify(context.Background(), "ping"))
	ev := waitEvent[BehaviourEvent[string]](t, h)
	assert.Equal(t, "ping", ev.Event)

	// OnMessage 返回 false 时不产生事件
	require.True(t, h.s.Notify(context.Background(), 42))
	require.True(t, h.s.Notify(context.Background(), "pong"))
	ev = waitEvent[BehaviourEvent[string]](t, h)
	assert.Equal(t, "pong", ev.Event)
}

func TestSwarm_NotifyAfterClose(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Close())
	assert.False(t, h.s.Notify(context.Background(), "late"))
}

func TestSwarm_HostIdentity(t *testing.T) {
	h := newHarness(t)
	var _ peer.ID = h.s.ID()
	assert.NotEmpty(t, h.s.ID())
	assert.Empty(t, h.s.ListenAddrs())
}
