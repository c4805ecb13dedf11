package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/libp2p/go-libp2p/core/crypto"

	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/identity")

// fileFormat 身份文件格式
type fileFormat struct {
	PrivateKey secret `json:"private_key"`
}

// parsedSecretHook 在 private_key 解析后调用，测试用来观察缓冲区是否被清零
var parsedSecretHook func(secret)

// ============================================================================
//                              加载
// ============================================================================

// Load 加载或生成节点身份
//
// path 为空时生成新的 Ed25519 身份；否则从身份文件加载。
// 文件相关的任何失败都返回 *ConfigError。
func Load(path string) (*Identity, error) {
	if path == "" {
		logger.Info("no private key configured, generating a new one")
		return Generate()
	}

	id, err := loadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return id, nil
}

func loadFile(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer wipe(data)

	var f fileFormat
	// 闭包在返回时才读取 f.PrivateKey
	defer func() { f.PrivateKey.Wipe() }()
	err = json.Unmarshal(data, &f)
	if parsedSecretHook != nil {
		parsedSecretHook(f.PrivateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(f.PrivateKey) == 0 {
		return nil, ErrMissingPrivateKey
	}

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(f.PrivateKey)))
	defer wipe(raw)
	n, err := base64.StdEncoding.Decode(raw, f.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	priv, err := crypto.UnmarshalPrivateKey(raw[:n])
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return FromPrivateKey(priv)
}

// ============================================================================
//                              保存
// ============================================================================

// WriteFile 将身份写入文件（与 Load 相同的格式）
//
// 使用临时文件 + rename 原子写入，文件权限 0600。
func WriteFile(path string, id *Identity) error {
	if id == nil {
		return ErrNilPrivateKey
	}
	raw, err := crypto.MarshalPrivateKey(id.PrivateKey())
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	defer wipe(raw)

	enc := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	defer wipe(enc)
	base64.StdEncoding.Encode(enc, raw)

	doc := make([]byte, 0, len(enc)+32)
	defer func() { wipe(doc) }()
	doc = append(doc, `{"private_key":"`...)
	doc = append(doc, enc...)
	doc = append(doc, "\"}\n"...)

	return atomicWriteFile(path, doc, 0600)
}

// atomicWriteFile 原子写文件
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".identity-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	if werr == nil {
		werr = tmp.Chmod(perm)
	}
	if werr == nil {
		werr = tmp.Sync()
	}
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
