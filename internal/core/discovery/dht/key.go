package dht

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"math/bits"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/minio/sha256-simd"
)

// KeySize 键长度（字节）
const KeySize = sha256.Size

// Key Kademlia 键空间中的位置
type Key [KeySize]byte

// KeyForPeer 返回节点的键
func KeyForPeer(p peer.ID) Key {
	return KeyForBytes([]byte(p))
}

// KeyForBytes 返回任意查找目标的键
func KeyForBytes(b []byte) Key {
	return sha256.Sum256(b)
}

func (k Key) String() string {
	return hex.EncodeToString(k[:8])
}

// Distance 返回 XOR 距离
func (k Key) Distance(other Key) Key {
	var d Key
	for i := range k {
		d[i] = k[i] ^ other[i]
	}
	return d
}

// CommonPrefixLen 返回公共前缀位数，相同键返回 256
func (k Key) CommonPrefixLen(other Key) int {
	for i := range k {
		if x := k[i] ^ other[i]; x != 0 {
			return i*8 + bits.LeadingZeros8(x)
		}
	}
	return KeySize * 8
}

// Closer 判断 a 是否比 b 更接近 k
func (k Key) Closer(a, b Key) bool {
	da, db := k.Distance(a), k.Distance(b)
	return bytes.Compare(da[:], db[:]) < 0
}

// randomTargetWithCPL 生成一个查找目标，其键与 local 的公共前缀恰好为 cpl 位
//
// 目标经过 SHA256 映射，只能随机尝试；cpl 越大尝试次数越多，调用方需限制 cpl。
func randomTargetWithCPL(local Key, cpl int) ([]byte, error) {
	target := make([]byte, KeySize)
	for {
		if _, err := rand.Read(target); err != nil {
			return nil, err
		}
		if KeyForBytes(target).CommonPrefixLen(local) == cpl {
			return target, nil
		}
	}
}
