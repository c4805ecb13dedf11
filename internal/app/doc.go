// Package app 组装引导节点并运行事件循环
//
// Module 用 fx 组合身份、传输栈、swarm、网络行为和指标。启动阶段按顺序
// 加载身份、绑定监听地址；任一步失败应用不会启动。随后事件循环在单个
// goroutine 中运行，直到应用停止。
package app
