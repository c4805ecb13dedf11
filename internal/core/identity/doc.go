// Package identity 管理 bootnode 的网络身份
//
// 身份由一个 libp2p 私钥确定，节点 ID（peer.ID）由公钥派生，进程生命周期内不变。
//
// 身份来源：
//   - 配置了身份文件：读取 JSON {"private_key": "<base64>"}，base64 内容为
//     protobuf 编码的 libp2p 私钥
//   - 未配置：生成新的 Ed25519 临时身份
//
// 加载过程中出现的所有私钥字节（文件内容、base64 文本、解码后的密钥）在
// 函数返回前都会被清零，无论成功还是失败。
package identity
