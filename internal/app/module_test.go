package app

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/swarm"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		ListenOn:          ma.StringCast("/ip4/127.0.0.1/tcp/0"),
		BootstrapInterval: 10 * time.Second,
		AgentVersion:      "test/1.0",
	}
}

func TestNew_CorruptedIdentityFailsBeforeBind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"private_key": "!!!not-base64!!!"}`), 0o600))

	cfg := testConfig(t)
	cfg.IdentityPath = path

	var started bool
	app, err := New(cfg, fx.Invoke(func(lc fx.Lifecycle) {
		lc.Append(fx.Hook{OnStart: func(context.Context) error {
			started = true
			return nil
		}})
	}))
	require.Error(t, err)
	assert.Nil(t, app)
	assert.False(t, started)

	var cfgErr *identity.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, path, cfgErr.Path)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestApp_BindFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	occupied, err := manet.FromNetAddr(l.Addr())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.ListenOn = occupied
	app, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = app.Start(ctx)
	require.Error(t, err)

	var bindErr *swarm.BindError
	assert.True(t, errors.As(err, &bindErr))
	_ = app.Stop(ctx)
}

func TestApp_StartStop(t *testing.T) {
	var s *Swarm
	app, err := New(testConfig(t), fx.Populate(&s))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	addrs := s.ListenAddrs()
	require.Len(t, addrs, 1)
	assert.True(t, manet.IsIPLoopback(addrs[0]))

	require.NoError(t, app.Stop(ctx))
	assert.ErrorIs(t, s.Listen(addrs[0]), swarm.ErrSwarmClosed)
}

func TestApp_TwoNodesIdentifyEachOther(t *testing.T) {
	var server, client *Swarm
	var serverLoop *Loop

	serverApp, err := New(testConfig(t), fx.Populate(&server, &serverLoop))
	require.NoError(t, err)
	clientApp, err := New(testConfig(t), fx.Populate(&client))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	require.NoError(t, serverApp.Start(ctx))
	defer serverApp.Stop(context.Background())
	require.NoError(t, clientApp.Start(ctx))
	defer clientApp.Stop(context.Background())

	require.NoError(t, client.DialPeer(ctx, server.ID(), server.ListenAddrs()))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(serverLoop.metrics.EventCount("identify.Received")) >= 1
	}, 10*time.Second, 20*time.Millisecond)

	// 客户端通告了 DHT 协议，下一次状态报告时路由表中有它
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(serverLoop.metrics.RoutingTableSize()) == 1
	}, 2*StatusInterval, 50*time.Millisecond)
}
