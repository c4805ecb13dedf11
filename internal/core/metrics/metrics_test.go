package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/swarm"
)

func TestMetrics_SetNetworkInfo(t *testing.T) {
	m := New()
	m.SetNetworkInfo(swarm.NetworkInfo{NumPeers: 3, NumEstablished: 4, NumPending: 1})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.peers))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.established))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pending))

	// 每次覆盖，不累加
	m.SetNetworkInfo(swarm.NetworkInfo{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.peers))
}

func TestMetrics_ObserveStatus(t *testing.T) {
	m := New()
	m.ObserveStatus(swarm.NetworkInfo{NumPeers: 2}, 5)
	m.ObserveStatus(swarm.NetworkInfo{NumPeers: 1}, 6)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusCount()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.peers))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.routingTable))
}

func TestMetrics_ObserveBootstrap(t *testing.T) {
	m := New()
	m.ObserveBootstrap(nil)
	m.ObserveBootstrap(dht.ErrNoKnownPeers)
	m.ObserveBootstrap(dht.ErrNoKnownPeers)
	m.ObserveBootstrap(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BootstrapCount(BootstrapStarted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BootstrapCount(BootstrapNoPeers)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BootstrapCount(BootstrapFailed)))
}

func TestMetrics_ObserveEvent(t *testing.T) {
	m := New()
	m.ObserveEvent("dialing")
	m.ObserveEvent("dialing")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("dialing")))
}

func TestMetrics_Server(t *testing.T) {
	m := New()
	m.SetRoutingTableSize(7)

	srv, err := m.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	resp, err := http.Get("http://" + srv.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bootnode_routing_table_peers 7")
}

func TestModule_NoListenAddr(t *testing.T) {
	var m *Metrics
	app := fxtest.New(t,
		fx.NopLogger,
		Module(),
		fx.Populate(&m),
	)
	app.RequireStart()
	app.RequireStop()
	require.NotNil(t, m)
}

func TestModule_ListenFailure(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(Config{ListenAddr: "256.0.0.1:0"}),
		Module(),
		fx.Invoke(func(*Metrics) {}),
	)
	assert.Error(t, app.Start(context.Background()))
}
