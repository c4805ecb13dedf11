package identify

import "errors"

var (
	// ErrPublicKeyMismatch 公钥与连接的节点 ID 不一致
	ErrPublicKeyMismatch = errors.New("identify: public key does not match peer id")

	// ErrInvalidSignedRecord 签名记录无效
	ErrInvalidSignedRecord = errors.New("identify: invalid signed peer record")

	// ErrRecordPeerMismatch 签名记录属于其他节点
	ErrRecordPeerMismatch = errors.New("identify: signed peer record belongs to another peer")
)
