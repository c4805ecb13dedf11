package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/swarm"
)

const namespace = "bootnode"

// 引导结果标签
const (
	BootstrapStarted = "started"
	BootstrapNoPeers = "no_known_peers"
	BootstrapFailed  = "error"
)

// Metrics 节点指标
type Metrics struct {
	registry *prometheus.Registry

	peers        prometheus.Gauge
	established  prometheus.Gauge
	pending      prometheus.Gauge
	routingTable prometheus.Gauge
	statuses     prometheus.Counter
	bootstraps   *prometheus.CounterVec
	events       *prometheus.CounterVec
}

// New 创建指标并注册到独立的 registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_peers",
			Help:      "Number of distinct connected peers.",
		}),
		established: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_established",
			Help:      "Number of established connections.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_pending",
			Help:      "Number of connections being dialed or upgraded.",
		}),
		routingTable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routing_table_peers",
			Help:      "Number of peers in the DHT routing table.",
		}),
		statuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_reports_total",
			Help:      "Network status reports emitted.",
		}),
		bootstraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bootstrap_total",
			Help:      "DHT bootstrap attempts by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swarm_events_total",
			Help:      "Swarm events handled by the event loop, by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.peers, m.established, m.pending, m.routingTable, m.statuses, m.bootstraps, m.events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 返回指标 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStatus 记录一次状态报告
func (m *Metrics) ObserveStatus(info swarm.NetworkInfo, routingTableSize int) {
	m.statuses.Inc()
	m.SetNetworkInfo(info)
	m.SetRoutingTableSize(routingTableSize)
}

// StatusCount 返回状态报告次数
func (m *Metrics) StatusCount() prometheus.Counter {
	return m.statuses
}

// SetNetworkInfo 用状态快照覆盖连接指标
func (m *Metrics) SetNetworkInfo(info swarm.NetworkInfo) {
	m.peers.Set(float64(info.NumPeers))
	m.established.Set(float64(info.NumEstablished))
	m.pending.Set(float64(info.NumPending))
}

// SetRoutingTableSize 设置路由表大小
func (m *Metrics) SetRoutingTableSize(n int) {
	m.routingTable.Set(float64(n))
}

// ObserveBootstrap 记录一次引导结果
func (m *Metrics) ObserveBootstrap(err error) {
	switch {
	case err == nil:
		m.bootstraps.WithLabelValues(BootstrapStarted).Inc()
	case errors.Is(err, dht.ErrNoKnownPeers):
		m.bootstraps.WithLabelValues(BootstrapNoPeers).Inc()
	default:
		m.bootstraps.WithLabelValues(BootstrapFailed).Inc()
	}
}

// ObserveEvent 记录一个事件
func (m *Metrics) ObserveEvent(kind string) {
	m.events.WithLabelValues(kind).Inc()
}

// BootstrapCount 返回某个结果的引导次数
func (m *Metrics) BootstrapCount(result string) prometheus.Counter {
	return m.bootstraps.WithLabelValues(result)
}

// EventCount 返回某类事件的计数
func (m *Metrics) EventCount(kind string) prometheus.Counter {
	return m.events.WithLabelValues(kind)
}

// RoutingTableSize 返回路由表大小指标
func (m *Metrics) RoutingTableSize() prometheus.Gauge {
	return m.routingTable
}
