// Package noise 实现 Noise 协议安全传输
//
// 本实现遵循 libp2p-noise 规范：
// https://github.com/libp2p/specs/blob/master/noise/README.md
//
// Noise XX 握手流程：
//
//	-> e                                      (发起者发送临时公钥)
//	<- e, ee, s, es, payload                  (响应者发送临时公钥、静态公钥、payload)
//	-> s, se, payload                         (发起者发送静态公钥、payload)
//
// payload 包含：
//   - identity_key: protobuf 序列化的身份公钥
//   - identity_sig: Sign("noise-libp2p-static-key:" + curve25519_static_pubkey)
//
// 握手完成并验证远端身份后才返回连接，调用方拿到的 RemotePeer 一定已经验证。
package noise
