package noise

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"filippo.io/edwards25519"
	"github.com/flynn/noise"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	noisepb "github.com/libp2p/go-libp2p/p2p/security/noise/pb"
	"google.golang.org/protobuf/proto"
)

// payloadSigPrefix 是签名 payload 的前缀
// 与 libp2p-noise 规范兼容
const payloadSigPrefix = "noise-libp2p-static-key:"

// defaultHandshakeTimeout 握手超时（ctx 没有 deadline 时使用）
const defaultHandshakeTimeout = 30 * time.Second

var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// ============================================================================
// Noise XX 握手实现
// ============================================================================

// performHandshake 执行 Noise XX 握手
//
// remotePeer 为空时接受任意已验证的远端身份。
func (t *Transport) performHandshake(ctx context.Context, conn net.Conn, remotePeer peer.ID, isInitiator bool) (_ *Conn, err error) {
	deadline := time.Now().Add(defaultHandshakeTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	defer func() {
		if err == nil {
			err = conn.SetDeadline(time.Time{})
		}
	}()

	// ctx 取消时中断阻塞的读写
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	staticKey, err := t.staticKeypair()
	if err != nil {
		return nil, err
	}
	defer wipe(staticKey.Private)

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite,
		Pattern:       noise.HandshakeXX,
		Initiator:     isInitiator,
		StaticKeypair: staticKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create handshake state: %w", err)
	}

	localPayload, err := t.generateHandshakePayload(staticKey.Public)
	if err != nil {
		return nil, fmt.Errorf("generate handshake payload: %w", err)
	}

	var remotePub crypto.PubKey
	verify := func(payload []byte) error {
		pub, verr := handleRemotePayload(payload, hs.PeerStatic(), remotePeer)
		remotePub = pub
		return verr
	}

	var sendCS, recvCS *noise.CipherState
	if isInitiator {
		sendCS, recvCS, err = clientHandshake(conn, hs, localPayload, verify)
	} else {
		sendCS, recvCS, err = serverHandshake(conn, hs, localPayload, verify)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	remoteID, err := peer.IDFromPublicKey(remotePub)
	if err != nil {
		return nil, fmt.Errorf("derive remote peer id: %w", err)
	}

	return newConn(conn, sendCS, recvCS, t.localID, remoteID, remotePub), nil
}

// staticKeypair 返回本次握手的 Curve25519 静态密钥对
//
// Ed25519 身份直接转换为 Curve25519；其他类型的身份每次握手生成新的密钥对。
func (t *Transport) staticKeypair() (noise.DHKey, error) {
	if t.privKey.Type() == crypto.Ed25519 {
		privRaw, err := t.privKey.Raw()
		if err != nil {
			return noise.DHKey{}, fmt.Errorf("get private key bytes: %w", err)
		}
		defer wipe(privRaw)
		pubRaw, err := t.privKey.GetPublic().Raw()
		if err != nil {
			return noise.DHKey{}, fmt.Errorf("get public key bytes: %w", err)
		}
		pub, err := ed25519ToCurve25519Public(pubRaw)
		if err != nil {
			return noise.DHKey{}, err
		}
		return noise.DHKey{
			Private: ed25519ToCurve25519Private(privRaw),
			Public:  pub,
		}, nil
	}

	kp, err := noise.DH25519.GenerateKeypair(rand.Reader)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("generate static key: %w", err)
	}
	return kp, nil
}

// generateHandshakePayload 生成握手 payload
func (t *Transport) generateHandshakePayload(staticPub []byte) ([]byte, error) {
	pubKeyBytes, err := crypto.MarshalPublicKey(t.privKey.GetPublic())
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	toSign := append([]byte(payloadSigPrefix), staticPub...)
	signature, err := t.privKey.Sign(toSign)
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}

	payload := &noisepb.NoiseHandshakePayload{
		IdentityKey: pubKeyBytes,
		IdentitySig: signature,
	}
	return proto.Marshal(payload)
}

// handleRemotePayload 验证远端 payload 并返回其身份公钥
func handleRemotePayload(payloadBytes, remoteStatic []byte, expected peer.ID) (crypto.PubKey, error) {
	if len(remoteStatic) != 32 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidStaticKey, len(remoteStatic))
	}

	var payload noisepb.NoiseHandshakePayload
	if err := proto.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(payload.GetIdentityKey()) == 0 || len(payload.GetIdentitySig()) == 0 {
		return nil, ErrInvalidPayload
	}

	remotePubKey, err := crypto.UnmarshalPublicKey(payload.GetIdentityKey())
	if err != nil {
		return nil, fmt.Errorf("unmarshal remote public key: %w", err)
	}

	toVerify := append([]byte(payloadSigPrefix), remoteStatic...)
	valid, err := remotePubKey.Verify(toVerify, payload.GetIdentitySig())
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	if expected != "" && !expected.MatchesPublicKey(remotePubKey) {
		actual, _ := peer.IDFromPublicKey(remotePubKey)
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrPeerIDMismatch, expected, actual)
	}
	return remotePubKey, nil
}

// ============================================================================
// 握手流程
// ============================================================================

// clientHandshake 客户端握手（发起者）
//
// 发起者在发送自己的 payload 之前先验证响应者身份。
func clientHandshake(conn net.Conn, hs *noise.HandshakeState, localPayload []byte, verify func([]byte) error) (*noise.CipherState, *noise.CipherState, error) {
	// 轮次 1: 发送 e (空 payload)
	msg1, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("write message 1: %w", err)
	}
	if err := writeFrame(conn, msg1); err != nil {
		return nil, nil, fmt.Errorf("send message 1: %w", err)
	}

	// 轮次 2: 接收 e, ee, s, es, payload
	msg2, err := readFrame(conn)
	if err != nil {
		return nil, nil, fmt.Errorf("receive message 2: %w", err)
	}
	remotePayload, _, _, err := hs.ReadMessage(nil, msg2)
	if err != nil {
		return nil, nil, fmt.Errorf("read message 2: %w", err)
	}
	if err := verify(remotePayload); err != nil {
		return nil, nil, err
	}

	// 轮次 3: 发送 s, se, payload (最后一轮，返回 CipherStates)
	msg3, cs1, cs2, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, fmt.Errorf("write message 3: %w", err)
	}
	if err := writeFrame(conn, msg3); err != nil {
		return nil, nil, fmt.Errorf("send message 3: %w", err)
	}

	// cs1 = 发送密钥，cs2 = 接收密钥（对于发起者）
	return cs1, cs2, nil
}

// serverHandshake 服务器握手（响应者）
func serverHandshake(conn net.Conn, hs *noise.HandshakeState, localPayload []byte, verify func([]byte) error) (*noise.CipherState, *noise.CipherState, error) {
	// 轮次 1: 接收 e
	msg1, err := readFrame(conn)
	if err != nil {
		return nil, nil, fmt.Errorf("receive message 1: %w", err)
	}
	if _, _, _, err = hs.ReadMessage(nil, msg1); err != nil {
		return nil, nil, fmt.Errorf("read message 1: %w", err)
	}

	// 轮次 2: 发送 e, ee, s, es, payload
	msg2, _, _, err := hs.WriteMessage(nil, localPayload)
	if err != nil {
		return nil, nil, fmt.Errorf("write message 2: %w", err)
	}
	if err := writeFrame(conn, msg2); err != nil {
		return nil, nil, fmt.Errorf("send message 2: %w", err)
	}

	// 轮次 3: 接收 s, se, payload
	msg3, err := readFrame(conn)
	if err != nil {
		return nil, nil, fmt.Errorf("receive message 3: %w", err)
	}
	remotePayload, cs1, cs2, err := hs.ReadMessage(nil, msg3)
	if err != nil {
		return nil, nil, fmt.Errorf("read message 3: %w", err)
	}
	if err := verify(remotePayload); err != nil {
		return nil, nil, err
	}

	// cs1 = 接收密钥，cs2 = 发送密钥（对于响应者，与发起者相反）
	return cs2, cs1, nil
}

// ============================================================================
// 密钥转换
// ============================================================================

// ed25519ToCurve25519Private 将 Ed25519 私钥转换为 Curve25519 私钥
//
// SHA-512(seed) 取前 32 字节并 clamping（RFC 7748）。
func ed25519ToCurve25519Private(edPriv []byte) []byte {
	h := sha512.Sum512(edPriv[:ed25519.SeedSize])
	defer wipe(h[:])

	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	out := make([]byte, 32)
	copy(out, h[:32])
	return out
}

// ed25519ToCurve25519Public 将 Ed25519 公钥转换为 Curve25519 公钥
//
// u = (1 + y) / (1 - y)  (mod p)
func ed25519ToCurve25519Public(edPub []byte) ([]byte, error) {
	if len(edPub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key length: %d", len(edPub))
	}
	point, err := new(edwards25519.Point).SetBytes(edPub)
	if err != nil {
		return nil, fmt.Errorf("decode ed25519 public key: %w", err)
	}
	return point.BytesMontgomery(), nil
}

// ============================================================================
// 辅助函数
// ============================================================================

// writeFrame 写入帧（2 字节长度 + 数据），合并为一次写入
func writeFrame(w io.Writer, data []byte) error {
	buf := make([]byte, 2+len(data))
	binary.BigEndian.PutUint16(buf, uint16(len(data)))
	copy(buf[2:], data)
	_, err := w.Write(buf)
	return err
}

// readFrame 读取帧（2 字节长度 + 数据）
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	data := make([]byte, binary.BigEndian.Uint16(lenBuf[:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func wipe(b []byte) {
	clear(b)
}
