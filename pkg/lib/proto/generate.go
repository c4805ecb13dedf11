package proto

// 使用以下命令生成 Go 代码：
//   go generate ./...
//
//go:generate protoc --go_out=. --go_opt=paths=source_relative kad/kad.proto
