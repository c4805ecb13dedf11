package behaviour

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
)

const testKad protocol.ID = "/dht/1.0.0"

func randPeer(t *testing.T) peer.ID {
	t.Helper()
	_, pub, err := crypto.GenerateEd25519Key(nil)
	require.NoError(t, err)
	id, err := peer.IDFromPublicKey(pub)
	require.NoError(t, err)
	return id
}

type recordingAdder struct {
	added map[peer.ID][]ma.Multiaddr
}

func (r *recordingAdder) AddAddress(p peer.ID, addr ma.Multiaddr) dht.RoutingUpdate {
	if r.added == nil {
		r.added = make(map[peer.ID][]ma.Multiaddr)
	}
	r.added[p] = append(r.added[p], addr)
	return dht.RoutingUpdate{Kind: dht.UpdateAdded}
}

func received(p peer.ID, protos []protocol.ID, addrs ...ma.Multiaddr) identify.Received {
	return identify.Received{
		PeerID: p,
		Info:   identify.Info{Protocols: protos, ListenAddrs: addrs},
	}
}

var (
	addr1 = ma.StringCast("/ip4/192.0.2.1/tcp/4001")
	addr2 = ma.StringCast("/dns4/peer.example.com/tcp/4001")
)

func TestAddIdentifiedPeer_ExactMatch(t *testing.T) {
	k := dht.New(dht.Config{Protocol: testKad}, randPeer(t))
	a := randPeer(t)

	n := AddIdentifiedPeer(k, testKad, received(a, []protocol.ID{"/dht/1.0.0", "/other/1.0.0"}, addr1, addr2))
	assert.Equal(t, 2, n)

	e, ok := k.RoutingTable().Find(a)
	require.True(t, ok)
	require.Len(t, e.Addrs, 2)
	assert.True(t, addr2.Equal(e.Addrs[0]))
	assert.True(t, addr1.Equal(e.Addrs[1]))
}

func TestAddIdentifiedPeer_NoMatch(t *testing.T) {
	k := dht.New(dht.Config{Protocol: testKad}, randPeer(t))
	b := randPeer(t)

	n := AddIdentifiedPeer(k, testKad, received(b, []protocol.ID{"/other/1.0.0"}, addr1))
	assert.Equal(t, 0, n)
	_, ok := k.RoutingTable().Find(b)
	assert.False(t, ok)
	assert.Equal(t, 0, k.RoutingTable().Size())
}

func TestAddIdentifiedPeer_SimilarIDsRejected(t *testing.T) {
	similar := [][]protocol.ID{
		{"/dht/1.0.0/extra"},
		{"/dht/1.0"},
		{"/DHT/1.0.0"},
		{"dht/1.0.0"},
		{"/dht/1.0.0 "},
		{"/ipfs/kad/1.0.0"},
		nil,
	}
	for _, protos := range similar {
		r := &recordingAdder{}
		n := AddIdentifiedPeer(r, testKad, received(randPeer(t), protos, addr1, addr2))
		assert.Equal(t, 0, n, "%v", protos)
		assert.Empty(t, r.added, "%v", protos)
	}
}

func TestAddIdentifiedPeer_AllAddresses(t *testing.T) {
	r := &recordingAdder{}
	p := randPeer(t)

	n := AddIdentifiedPeer(r, testKad, received(p, []protocol.ID{identify.ProtocolID, testKad}, addr1, addr2))
	assert.Equal(t, 2, n)
	assert.Equal(t, []ma.Multiaddr{addr1, addr2}, r.added[p])

	// 没有地址时不写入
	q := randPeer(t)
	assert.Equal(t, 0, AddIdentifiedPeer(r, testKad, received(q, []protocol.ID{testKad})))
	assert.NotContains(t, r.added, q)
}
