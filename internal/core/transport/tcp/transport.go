package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	madns "github.com/multiformats/go-multiaddr-dns"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/transport/tcp")

// 默认参数
const (
	DefaultDialTimeout = 10 * time.Second
	DefaultKeepAlive   = 30 * time.Second
)

// Config TCP 传输配置
type Config struct {
	// DialTimeout 单次拨号超时
	DialTimeout time.Duration

	// KeepAlive TCP keepalive 周期
	KeepAlive time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		DialTimeout: DefaultDialTimeout,
		KeepAlive:   DefaultKeepAlive,
	}
}

// ============================================================================
//                              Transport 实现
// ============================================================================

// Transport TCP 传输层
type Transport struct {
	config   Config
	resolver *madns.Resolver
}

// NewTransport 创建 TCP 传输层
//
// 名称解析使用 madns.DefaultResolver（基于 net.DefaultResolver，即系统解析器）。
func NewTransport(config Config) *Transport {
	if config.DialTimeout <= 0 {
		config.DialTimeout = DefaultDialTimeout
	}
	if config.KeepAlive <= 0 {
		config.KeepAlive = DefaultKeepAlive
	}
	return &Transport{
		config:   config,
		resolver: madns.DefaultResolver,
	}
}

// CanDial 判断地址是否为可拨号的 TCP 地址
func (t *Transport) CanDial(addr ma.Multiaddr) bool {
	protos := addr.Protocols()
	if len(protos) < 2 {
		return false
	}
	switch protos[0].Code {
	case ma.P_IP4, ma.P_IP6, ma.P_DNS, ma.P_DNS4, ma.P_DNS6, ma.P_DNSADDR:
	default:
		return false
	}
	return protos[1].Code == ma.P_TCP
}

// Resolve 解析地址中的 DNS 组件
//
// 不含 DNS 组件的地址原样返回。
func (t *Transport) Resolve(ctx context.Context, addr ma.Multiaddr) ([]ma.Multiaddr, error) {
	if !madns.Matches(addr) {
		return []ma.Multiaddr{addr}, nil
	}
	resolved, err := t.resolver.Resolve(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}

	out := resolved[:0]
	for _, r := range resolved {
		if _, err := manet.ToNetAddr(tcpPart(r)); err == nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResolvedAddrs, addr)
	}
	return out, nil
}

// Dial 建立出站连接
//
// DNS 地址解析后依次尝试，返回第一个成功的连接。
func (t *Transport) Dial(ctx context.Context, addr ma.Multiaddr) (manet.Conn, error) {
	if !t.CanDial(addr) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAddr, addr)
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.DialTimeout)
	defer cancel()

	addrs, err := t.Resolve(ctx, addr)
	if err != nil {
		return nil, err
	}

	d := manet.Dialer{Dialer: net.Dialer{KeepAlive: t.config.KeepAlive}}
	var errs error
	for _, a := range addrs {
		conn, err := d.DialContext(ctx, tcpPart(a))
		if err == nil {
			return conn, nil
		}
		logger.Debug("dial attempt failed", "addr", a.String(), "err", err)
		errs = errors.Join(errs, err)
	}
	return nil, errs
}

// Listen 监听地址
//
// DNS 地址使用解析得到的第一个地址。
func (t *Transport) Listen(addr ma.Multiaddr) (manet.Listener, error) {
	if !t.CanDial(addr) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAddr, addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.config.DialTimeout)
	defer cancel()

	addrs, err := t.Resolve(ctx, addr)
	if err != nil {
		return nil, err
	}

	network, host, err := manet.DialArgs(tcpPart(addrs[0]))
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{KeepAlive: t.config.KeepAlive}
	nl, err := lc.Listen(ctx, network, host)
	if err != nil {
		return nil, err
	}
	l, err := manet.WrapNetListener(nl)
	if err != nil {
		nl.Close()
		return nil, err
	}
	return l, nil
}

// tcpPart 截取地址的 ip/tcp 部分（去掉 /p2p 后缀）
func tcpPart(addr ma.Multiaddr) ma.Multiaddr {
	s := addr.String()
	if i := strings.Index(s, "/p2p/"); i > 0 {
		if m, err := ma.NewMultiaddr(s[:i]); err == nil {
			return m
		}
	}
	return addr
}
