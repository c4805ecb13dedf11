// Package metrics 导出节点的 Prometheus 指标
//
// 状态定时器每个周期用 swarm.NetworkInfo 覆盖连接指标；引导结果和
// 事件按类型计数。配置了监听地址时在 /metrics 上提供 HTTP 导出。
package metrics
