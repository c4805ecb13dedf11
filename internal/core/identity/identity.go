package identity

import (
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

// ============================================================================
//                              Identity
// ============================================================================

// Identity 节点身份
//
// 创建后不可变。
type Identity struct {
	privateKey crypto.PrivKey
	publicKey  crypto.PubKey
	id         peer.ID
}

// Generate 生成新的 Ed25519 身份
func Generate() (*Identity, error) {
	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return FromPrivateKey(priv)
}

// FromPrivateKey 从私钥创建身份
func FromPrivateKey(priv crypto.PrivKey) (*Identity, error) {
	if priv == nil {
		return nil, ErrNilPrivateKey
	}
	pub := priv.GetPublic()
	id, err := peer.IDFromPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("derive peer id: %w", err)
	}
	return &Identity{
		privateKey: priv,
		publicKey:  pub,
		id:         id,
	}, nil
}

// ID 返回节点 ID
func (i *Identity) ID() peer.ID {
	return i.id
}

// PublicKey 返回公钥
func (i *Identity) PublicKey() crypto.PubKey {
	return i.publicKey
}

// PrivateKey 返回私钥
func (i *Identity) PrivateKey() crypto.PrivKey {
	return i.privateKey
}

// Sign 签名数据
func (i *Identity) Sign(data []byte) ([]byte, error) {
	return i.privateKey.Sign(data)
}
