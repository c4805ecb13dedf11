package behaviour

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
)

func newBootstrap(t *testing.T, kad protocol.ID) *Bootstrap {
	t.Helper()
	id, err := identity.Generate()
	require.NoError(t, err)
	return ProvideBootstrap(ModuleInput{
		Identity: id,
		Config:   Config{AgentVersion: "test/1.0", KadProtocol: kad},
	})
}

func TestBootstrap_Protocols(t *testing.T) {
	b := newBootstrap(t, testKad)
	assert.Equal(t, []protocol.ID{identify.ProtocolID, testKad}, b.Protocols())
	assert.Equal(t, testKad, b.Kademlia.Protocol())
}

func TestBootstrap_DefaultKadProtocol(t *testing.T) {
	b := newBootstrap(t, "")
	assert.Equal(t, dht.DefaultConfig().Protocol, b.Kademlia.Protocol())
}

func TestBootstrap_OnMessageForeign(t *testing.T) {
	b := newBootstrap(t, testKad)
	_, ok := b.OnMessage(struct{}{})
	assert.False(t, ok)
}
