package noise

import "errors"

var (
	// ErrInvalidSignature 远端静态公钥签名无效
	ErrInvalidSignature = errors.New("noise: remote static key not bound to identity key")

	// ErrPeerIDMismatch PeerID 不匹配
	ErrPeerIDMismatch = errors.New("noise: peer ID mismatch")

	// ErrInvalidStaticKey 远端静态公钥长度错误
	ErrInvalidStaticKey = errors.New("noise: invalid remote static key")

	// ErrInvalidPayload 握手 payload 无法解析或缺少身份字段
	ErrInvalidPayload = errors.New("noise: invalid handshake payload")
)
