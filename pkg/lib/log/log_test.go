package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	l := Logger("test")
	l.Debug("hidden")
	l.Info("network status", "peers", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "network status", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.EqualValues(t, 3, rec["peers"])
}

func TestSetup_Pretty(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelDebug, Pretty: true, Output: buf})

	Logger("swarm").Debug("dialing", "addr", "/ip4/127.0.0.1/tcp/1")
	out := buf.String()
	assert.Contains(t, out, "msg=dialing")
	assert.Contains(t, out, "component=swarm")
	assert.Contains(t, out, "source=")
}

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	l := Logger("early")
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Pretty: true, Output: buf})

	l.Info("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, l.Enabled(LevelInfo))
	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
