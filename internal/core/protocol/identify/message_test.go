package identify

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	pb "github.com/libp2p/go-libp2p/p2p/protocol/identify/pb"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func newKey(t *testing.T) (crypto.PrivKey, peer.ID) {
	t.Helper()
	priv, _, err := crypto.GenerateEd25519Key(nil)
	require.NoError(t, err)
	id, err := peer.IDFromPrivateKey(priv)
	require.NoError(t, err)
	return priv, id
}

func wireRoundTrip(t *testing.T, m *pb.Identify) *pb.Identify {
	t.Helper()
	data, err := proto.Marshal(m)
	require.NoError(t, err)
	var out pb.Identify
	require.NoError(t, proto.Unmarshal(data, &out))
	return &out
}

var testAddrs = []ma.Multiaddr{
	ma.StringCast("/ip4/192.0.2.1/tcp/4001"),
	ma.StringCast("/dns4/boot.example.com/tcp/4001"),
}

func TestParseMessage_SignedRecord(t *testing.T) {
	priv, id := newKey(t)
	observed := ma.StringCast("/ip4/198.51.100.7/tcp/51234")
	protos := []protocol.ID{ProtocolID, "/pathfinder/kad/1.0.0"}

	m, err := buildMessage(priv, ProtocolVersion, "test/1.0", testAddrs, observed, protos)
	require.NoError(t, err)

	info, err := parseMessage(wireRoundTrip(t, m), id, nil)
	require.NoError(t, err)

	assert.True(t, info.SignedRecord)
	assert.Equal(t, ProtocolVersion, info.ProtocolVersion)
	assert.Equal(t, "test/1.0", info.AgentVersion)
	assert.Equal(t, protos, info.Protocols)
	assert.True(t, info.PublicKey.Equals(priv.GetPublic()))
	require.NotNil(t, info.ObservedAddr)
	assert.True(t, observed.Equal(info.ObservedAddr))
	require.Len(t, info.ListenAddrs, len(testAddrs))
	for i := range testAddrs {
		assert.True(t, testAddrs[i].Equal(info.ListenAddrs[i]))
	}
}

func TestParseMessage_RecordReplacesPlainAddrs(t *testing.T) {
	priv, id := newKey(t)
	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs[:1], nil, nil)
	require.NoError(t, err)

	// 明文地址被篡改，签名记录优先
	m.ListenAddrs = [][]byte{ma.StringCast("/ip4/203.0.113.9/tcp/1").Bytes()}

	info, err := parseMessage(wireRoundTrip(t, m), id, nil)
	require.NoError(t, err)
	require.Len(t, info.ListenAddrs, 1)
	assert.True(t, testAddrs[0].Equal(info.ListenAddrs[0]))
}

func TestParseMessage_PlainAddrsWithoutRecord(t *testing.T) {
	priv, id := newKey(t)
	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)
	m.SignedPeerRecord = nil
	m.ListenAddrs = append(m.ListenAddrs, []byte{0xff, 0xff})

	info, err := parseMessage(wireRoundTrip(t, m), id, nil)
	require.NoError(t, err)
	assert.False(t, info.SignedRecord)
	assert.Len(t, info.ListenAddrs, len(testAddrs))
}

func TestParseMessage_PublicKeyMismatch(t *testing.T) {
	priv, _ := newKey(t)
	_, other := newKey(t)

	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)

	_, err = parseMessage(wireRoundTrip(t, m), other, nil)
	assert.ErrorIs(t, err, ErrPublicKeyMismatch)
}

func TestParseMessage_MissingPublicKeyUsesConnectionKey(t *testing.T) {
	priv, id := newKey(t)
	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)
	m.PublicKey = nil

	info, err := parseMessage(wireRoundTrip(t, m), id, priv.GetPublic())
	require.NoError(t, err)
	assert.True(t, info.PublicKey.Equals(priv.GetPublic()))
}

func TestParseMessage_TamperedRecord(t *testing.T) {
	priv, id := newKey(t)
	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)

	// 签名是信封的最后一个字段
	m.SignedPeerRecord[len(m.SignedPeerRecord)-1] ^= 0xff

	_, err = parseMessage(wireRoundTrip(t, m), id, nil)
	assert.ErrorIs(t, err, ErrInvalidSignedRecord)
}

func TestParseMessage_RecordFromAnotherPeer(t *testing.T) {
	priv, id := newKey(t)
	otherPriv, _ := newKey(t)

	m, err := buildMessage(priv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)
	other, err := buildMessage(otherPriv, ProtocolVersion, "", testAddrs, nil, nil)
	require.NoError(t, err)
	m.SignedPeerRecord = other.SignedPeerRecord

	_, err = parseMessage(wireRoundTrip(t, m), id, nil)
	assert.ErrorIs(t, err, ErrRecordPeerMismatch)
}

func TestParseMessage_InterleavedRepeatedFields(t *testing.T) {
	_, id := newKey(t)
	addr := ma.StringCast("/ip4/192.0.2.1/tcp/4001").Bytes()

	data := []byte{0x1a, 0x02, '/', 'a'} // protocols
	data = append(data, 0x12, byte(len(addr)))
	data = append(data, addr...) // listenAddrs
	data = append(data,
		0x1a, 0x02, '/', 'b', // protocols
		0x2a, 0x03, 'i', 'd', '1', // protocolVersion
		0x48, 0x07, // field 9 varint，忽略
	)

	var m pb.Identify
	require.NoError(t, proto.Unmarshal(data, &m))

	info, err := parseMessage(&m, id, nil)
	require.NoError(t, err)
	assert.Equal(t, []protocol.ID{"/a", "/b"}, info.Protocols)
	assert.Equal(t, "id1", info.ProtocolVersion)
	assert.Empty(t, info.AgentVersion)
	assert.False(t, info.SignedRecord)
	require.Len(t, info.ListenAddrs, 1)
	assert.Equal(t, "/ip4/192.0.2.1/tcp/4001", info.ListenAddrs[0].String())
}
