// Package swarm 实现连接群管理
//
// swarm 管理节点的所有连接和流：监听、拨号、入站升级、流协议协商。
//
// # 事件模型
//
// 后台任务（接受连接、握手、流处理、行为层查询）不直接修改共享状态，
// 而是把事件投递到 Events() 通道。事件循环是唯一的消费者：
//
//	for raw := range sw.Events() {
//	    ev, ok := sw.Process(raw)
//	    ...
//	}
//
// Process 在事件循环中运行，更新连接计数并调用行为层回调，
// 因此连接计数和行为层状态只有一个写者。
//
// Event 是封闭的变体集合，只有本包定义的类型实现它。
//
// # 连接表
//
// 用于复用连接打开流的 peer -> 连接映射由互斥锁保护，
// 属于传输内部状态，不参与 NetworkInfo 统计。
package swarm
