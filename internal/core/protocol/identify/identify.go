package identify

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	pb "github.com/libp2p/go-libp2p/p2p/protocol/identify/pb"
	"google.golang.org/protobuf/proto"

	"github.com/dep2p/bootnode/internal/core/swarm"
	"github.com/dep2p/bootnode/pkg/lib/log"
	pbio "github.com/dep2p/bootnode/pkg/lib/proto"
	"github.com/dep2p/bootnode/pkg/protocolids"
)

var logger = log.Logger("protocol/identify")

const (
	// ProtocolID identify 协议 ID
	ProtocolID = protocolids.Identify

	// ProtocolVersion 协议版本
	ProtocolVersion = "ipfs/0.1.0"

	// maxMessageSize 单条 identify 消息上限
	maxMessageSize = 64 << 10
)

// Config identify 配置
type Config struct {
	// AgentVersion 代理版本
	AgentVersion string

	// Protocols 对外通告的协议列表，为空时只通告 identify 自身
	Protocols []protocol.ID

	// Timeout 单次交换超时
	Timeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		AgentVersion: "dep2p-bootnode",
		Timeout:      30 * time.Second,
	}
}

// Behaviour identify 行为
type Behaviour struct {
	cfg  Config
	priv crypto.PrivKey
	host swarm.Host
}

var _ swarm.NetworkBehaviour[Event] = (*Behaviour)(nil)

// New 创建 identify 行为
func New(cfg Config, priv crypto.PrivKey) *Behaviour {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if len(cfg.Protocols) == 0 {
		cfg.Protocols = []protocol.ID{ProtocolID}
	}
	return &Behaviour{cfg: cfg, priv: priv}
}

// Init 实现 swarm.NetworkBehaviour
func (b *Behaviour) Init(h swarm.Host) {
	b.host = h
}

// Protocols 实现 swarm.NetworkBehaviour
func (b *Behaviour) Protocols() []protocol.ID {
	return []protocol.ID{ProtocolID}
}

// ============================================================================
//                              响应方
// ============================================================================

// HandleStream 写入本地信息后关闭流
func (b *Behaviour) HandleStream(ctx context.Context, s *swarm.Stream) {
	remote := s.RemotePeer()
	_ = s.SetDeadline(time.Now().Add(b.cfg.Timeout))

	m, err := buildMessage(
		b.priv,
		ProtocolVersion,
		b.cfg.AgentVersion,
		b.host.ListenAddrs(),
		s.RemoteMultiaddr(),
		b.cfg.Protocols,
	)
	var data []byte
	if err == nil {
		data, err = proto.Marshal(m)
	}
	if err == nil {
		err = pbio.WriteDelimited(s, data)
	}
	if err != nil {
		s.Reset()
		b.host.Notify(ctx, message{ev: Error{PeerID: remote, Err: err}})
		return
	}
	s.Close()
	b.host.Notify(ctx, message{ev: Sent{PeerID: remote}})
}

// ============================================================================
//                              请求方
// ============================================================================

// OnConnectionEstablished 每条新连接的第一次建立时请求远端信息
func (b *Behaviour) OnConnectionEstablished(info swarm.ConnInfo) {
	if info.NumEstablished != 1 {
		return
	}
	p := info.PeerID
	b.host.Exec(func(ctx context.Context) {
		b.identify(ctx, p)
	})
}

// OnConnectionClosed 实现 swarm.NetworkBehaviour
func (b *Behaviour) OnConnectionClosed(swarm.ConnInfo) {}

func (b *Behaviour) identify(ctx context.Context, p peer.ID) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	info, err := b.request(ctx, p)
	if err != nil {
		logger.Debug("identify failed", "peer", log.TruncateID(p.String(), 8), "err", err)
		b.host.Notify(ctx, message{ev: Error{PeerID: p, Err: err}})
		return
	}
	b.host.Notify(ctx, message{ev: Received{PeerID: p, Info: info}})
}

func (b *Behaviour) request(ctx context.Context, p peer.ID) (Info, error) {
	s, err := b.host.NewStream(ctx, p, nil, ProtocolID)
	if err != nil {
		return Info{}, err
	}
	defer s.Close()
	if d, ok := ctx.Deadline(); ok {
		_ = s.SetDeadline(d)
	}

	data, err := pbio.ReadDelimited(s, maxMessageSize)
	if err != nil {
		s.Reset()
		return Info{}, err
	}
	var m pb.Identify
	if err := proto.Unmarshal(data, &m); err != nil {
		return Info{}, err
	}
	return parseMessage(&m, p, s.RemotePublicKey())
}

// OnMessage 把后台任务的结果转换为事件
func (b *Behaviour) OnMessage(msg any) (Event, bool) {
	m, ok := msg.(message)
	if !ok {
		return nil, false
	}
	return m.ev, true
}
