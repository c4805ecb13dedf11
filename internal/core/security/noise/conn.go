package noise

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/flynn/noise"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

const (
	// maxFrameSize Noise 消息最大长度
	maxFrameSize = 65535
	// maxPlaintext 单帧最大明文（扣除 16 字节 AEAD tag）
	maxPlaintext = maxFrameSize - 16
)

// ============================================================================
// Secure Connection 实现
// ============================================================================

// Conn Noise 安全连接
type Conn struct {
	net.Conn

	sendCS *noise.CipherState
	recvCS *noise.CipherState

	localPeer       peer.ID
	remotePeer      peer.ID
	remotePublicKey crypto.PubKey

	readMu  sync.Mutex
	readBuf []byte
	// 未读完的明文
	pending []byte

	writeMu  sync.Mutex
	writeBuf []byte
}

var _ net.Conn = (*Conn)(nil)

func newConn(conn net.Conn, sendCS, recvCS *noise.CipherState, local, remote peer.ID, remotePub crypto.PubKey) *Conn {
	return &Conn{
		Conn:            conn,
		sendCS:          sendCS,
		recvCS:          recvCS,
		localPeer:       local,
		remotePeer:      remote,
		remotePublicKey: remotePub,
	}
}

// Read 从连接读取数据（解密）
func (c *Conn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}

	for {
		var lenBuf [2]byte
		if _, err := io.ReadFull(c.Conn, lenBuf[:]); err != nil {
			return 0, err
		}
		msgLen := int(binary.BigEndian.Uint16(lenBuf[:]))

		if cap(c.readBuf) < msgLen {
			c.readBuf = make([]byte, maxFrameSize)
		}
		enc := c.readBuf[:msgLen]
		if _, err := io.ReadFull(c.Conn, enc); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}

		// 原地解密
		plaintext, err := c.recvCS.Decrypt(enc[:0], nil, enc)
		if err != nil {
			return 0, fmt.Errorf("decrypt: %w", err)
		}
		if len(plaintext) == 0 {
			continue
		}

		n := copy(p, plaintext)
		if n < len(plaintext) {
			c.pending = plaintext[n:]
		}
		return n, nil
	}
}

// Write 向连接写入数据（加密）
//
// 超过单帧容量的数据拆分为多帧。
func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	written := 0
	for written < len(p) {
		end := written + maxPlaintext
		if end > len(p) {
			end = len(p)
		}
		chunk := p[written:end]

		if c.writeBuf == nil {
			c.writeBuf = make([]byte, 0, 2+maxFrameSize)
		}
		frame := c.writeBuf[:2]
		frame, err := c.sendCS.Encrypt(frame, nil, chunk)
		if err != nil {
			return written, fmt.Errorf("encrypt: %w", err)
		}
		binary.BigEndian.PutUint16(frame, uint16(len(frame)-2))

		if _, err := c.Conn.Write(frame); err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

// LocalPeer 返回本地节点 ID
func (c *Conn) LocalPeer() peer.ID {
	return c.localPeer
}

// RemotePeer 返回已验证的远端节点 ID
func (c *Conn) RemotePeer() peer.ID {
	return c.remotePeer
}

// RemotePublicKey 返回远端身份公钥
func (c *Conn) RemotePublicKey() crypto.PubKey {
	return c.remotePublicKey
}
