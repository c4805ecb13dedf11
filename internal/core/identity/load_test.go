package identity

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 参考密钥（libp2p peer-id 规范中的 Ed25519 测试向量）
const (
	testKeyBase64 = "CAESQH4IMGF8Sn3oOSXfsmlFVrEpNsR3oOH+suFI7J2mD+59HtHo+uLEoUS4vo/UtHvz07NLhxw8rPYBDw5C1HT84n4="
	testPeerID    = "12D3KooWBtg3aaRMjxwedh83aGiUkwSxDwUZkzuJcfaqUmo7R3pq"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_ReferenceKey(t *testing.T) {
	path := writeConfig(t, `{"private_key": "`+testKeyBase64+`"}`)

	id, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testPeerID, id.ID().String())
	assert.True(t, id.ID().MatchesPublicKey(id.PublicKey()))
}

func TestLoad_Deterministic(t *testing.T) {
	path := writeConfig(t, `{"private_key": "`+testKeyBase64+`"}`)

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())
}

func TestLoad_EscapedSlash(t *testing.T) {
	escaped := strings.ReplaceAll(testKeyBase64, "/", `\/`)
	path := writeConfig(t, `{"private_key": "`+escaped+`"}`)

	id, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testPeerID, id.ID().String())
}

func TestLoad_Ephemeral(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	b, err := Load("")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupted base64", `{"private_key": "not*valid*base64!!"}`},
		{"not json", `private_key=abc`},
		{"missing field", `{"key": "abc"}`},
		{"number field", `{"private_key": 42}`},
		{"valid base64 bad key", `{"private_key": "aGVsbG8gd29ybGQ="}`},
		{"unsupported escape", `{"private_key": "CAES\n"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			id, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, id)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, path, cfgErr.Path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	_, err := Load(path)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile_Reload(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "node.json")
	require.NoError(t, WriteFile(path, id))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, id.ID(), loaded.ID())
	assert.True(t, id.PrivateKey().Equals(loaded.PrivateKey()))
}

func TestSecret_Wipe(t *testing.T) {
	var s secret
	require.NoError(t, s.UnmarshalJSON([]byte(`"abc\/def"`)))
	assert.Equal(t, "abc/def", string(s))

	s.Wipe()
	for _, b := range s {
		assert.Zero(t, b)
	}
}

func TestLoad_WipesParsedSecret(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"success", `{"private_key": "` + testKeyBase64 + `"}`, false},
		{"corrupted base64", `{"private_key": "not*valid*base64!!"}`, true},
		{"valid base64 bad key", `{"private_key": "aGVsbG8gd29ybGQ="}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed secret
			parsedSecretHook = func(s secret) { parsed = s }
			t.Cleanup(func() { parsedSecretHook = nil })

			_, err := Load(writeConfig(t, tt.content))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.NotEmpty(t, parsed)
			for i, b := range parsed {
				require.Zerof(t, b, "byte %d not wiped", i)
			}
		})
	}
}
