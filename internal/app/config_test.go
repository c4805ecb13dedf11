package app

import (
	"errors"
	"testing"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/bootnode/pkg/protocolids"
)

func TestConfig_Validate(t *testing.T) {
	listen := ma.StringCast("/ip4/0.0.0.0/tcp/4001")

	tests := []struct {
		name    string
		cfg     Config
		field   string
		wantErr error
	}{
		{
			name:    "missing listen address",
			cfg:     Config{BootstrapInterval: time.Second},
			field:   "listen address",
			wantErr: ErrMissingListenAddr,
		},
		{
			name:    "zero bootstrap interval",
			cfg:     Config{ListenOn: listen},
			field:   "bootstrap interval",
			wantErr: ErrInvalidBootstrapInterval,
		},
		{
			name:    "negative bootstrap interval",
			cfg:     Config{ListenOn: listen, BootstrapInterval: -time.Second},
			field:   "bootstrap interval",
			wantErr: ErrInvalidBootstrapInterval,
		},
		{
			name:    "malformed kad protocol",
			cfg:     Config{ListenOn: listen, BootstrapInterval: time.Second, KadProtocol: "kad"},
			field:   "kad protocol",
			wantErr: protocolids.ErrInvalidProtocolID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := Config{
		ListenOn:          ma.StringCast("/ip4/0.0.0.0/tcp/4001"),
		BootstrapInterval: 10 * time.Second,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, protocolids.DefaultKademlia, cfg.KadProtocol)
}
