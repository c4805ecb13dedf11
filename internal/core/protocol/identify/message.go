package identify

import (
	"fmt"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/libp2p/go-libp2p/core/record"
	pb "github.com/libp2p/go-libp2p/p2p/protocol/identify/pb"
	ma "github.com/multiformats/go-multiaddr"
	"google.golang.org/protobuf/proto"
)

// buildMessage 构造本地 identify 消息
//
// observed 为空时不填观测地址。
func buildMessage(
	priv crypto.PrivKey,
	protocolVersion, agentVersion string,
	listenAddrs []ma.Multiaddr,
	observed ma.Multiaddr,
	protocols []protocol.ID,
) (*pb.Identify, error) {
	pubBytes, err := crypto.MarshalPublicKey(priv.GetPublic())
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		return nil, err
	}

	m := &pb.Identify{
		ProtocolVersion: proto.String(protocolVersion),
		AgentVersion:    proto.String(agentVersion),
		PublicKey:       pubBytes,
	}
	for _, a := range listenAddrs {
		m.ListenAddrs = append(m.ListenAddrs, a.Bytes())
	}
	if observed != nil {
		m.ObservedAddr = observed.Bytes()
	}
	for _, p := range protocols {
		m.Protocols = append(m.Protocols, string(p))
	}

	rec := peer.PeerRecordFromAddrInfo(peer.AddrInfo{ID: id, Addrs: listenAddrs})
	env, err := record.Seal(rec, priv)
	if err != nil {
		return nil, fmt.Errorf("seal peer record: %w", err)
	}
	if m.SignedPeerRecord, err = env.Marshal(); err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return m, nil
}

// parseMessage 校验并解析远端 identify 消息
//
// remote 是连接握手验证过的节点 ID，remoteKey 是握手得到的公钥，
// 消息未携带公钥时使用它。
func parseMessage(m *pb.Identify, remote peer.ID, remoteKey crypto.PubKey) (Info, error) {
	info := Info{
		ProtocolVersion: m.GetProtocolVersion(),
		AgentVersion:    m.GetAgentVersion(),
		PublicKey:       remoteKey,
	}

	if len(m.GetPublicKey()) > 0 {
		pub, err := crypto.UnmarshalPublicKey(m.GetPublicKey())
		if err != nil {
			return Info{}, fmt.Errorf("%w: %v", ErrPublicKeyMismatch, err)
		}
		if !remote.MatchesPublicKey(pub) {
			return Info{}, ErrPublicKeyMismatch
		}
		info.PublicKey = pub
	}

	// 无法解析的地址跳过
	for _, raw := range m.GetListenAddrs() {
		a, err := ma.NewMultiaddrBytes(raw)
		if err != nil {
			continue
		}
		info.ListenAddrs = append(info.ListenAddrs, a)
	}
	if len(m.GetObservedAddr()) > 0 {
		if a, err := ma.NewMultiaddrBytes(m.ObservedAddr); err == nil {
			info.ObservedAddr = a
		}
	}
	for _, p := range m.GetProtocols() {
		info.Protocols = append(info.Protocols, protocol.ID(p))
	}

	if len(m.GetSignedPeerRecord()) > 0 {
		addrs, err := consumeSignedRecord(m.SignedPeerRecord, remote)
		if err != nil {
			return Info{}, err
		}
		info.ListenAddrs = addrs
		info.SignedRecord = true
	}
	return info, nil
}

func consumeSignedRecord(data []byte, remote peer.ID) ([]ma.Multiaddr, error) {
	env, rec, err := record.ConsumeEnvelope(data, peer.PeerRecordEnvelopeDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignedRecord, err)
	}
	if !remote.MatchesPublicKey(env.PublicKey) {
		return nil, ErrRecordPeerMismatch
	}
	pr, ok := rec.(*peer.PeerRecord)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected record type %T", ErrInvalidSignedRecord, rec)
	}
	if pr.PeerID != remote {
		return nil, ErrRecordPeerMismatch
	}
	return pr.Addrs, nil
}
