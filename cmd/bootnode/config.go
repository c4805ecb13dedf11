package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/bootnode/internal/app"
	"github.com/dep2p/bootnode/pkg/lib/log"
	"github.com/dep2p/bootnode/pkg/protocolids"
)

// 环境变量名
const (
	envIdentityConfigFile = "IDENTITY_CONFIG_FILE"
	envListenOn           = "LISTEN_ON"
	envBootstrapInterval  = "BOOTSTRAP_INTERVAL"
	envPrettyLog          = "PRETTY_LOG"
	envLogLevel           = "LOG_LEVEL"
	envKadProtocol        = "KAD_PROTOCOL"
	envMetricsListen      = "METRICS_LISTEN"
)

// options 命令行参数
//
// 除 -gen-identity 和 -version 外，每个参数都有同名环境变量，命令行优先。
type options struct {
	identityPath      string
	listenOn          string
	bootstrapInterval string
	prettyLog         string
	logLevel          string
	kadProtocol       string
	metricsListen     string

	genIdentity string
	version     bool
}

// parseArgs 解析命令行参数并应用环境变量
func parseArgs(args []string, getenv func(string) string, output io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("bootnode", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&o.identityPath, "identity-config-file", "", "身份文件路径（为空时使用临时身份）")
	fs.StringVar(&o.listenOn, "listen-on", "", "监听并通告的 multiaddr（必需）")
	fs.StringVar(&o.bootstrapInterval, "bootstrap-interval", "", "DHT 引导周期，单位秒（必需）")
	fs.StringVar(&o.prettyLog, "pretty-log", "", "输出带源码位置的文本日志（true/false）")
	fs.StringVar(&o.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.StringVar(&o.kadProtocol, "kad-protocol", "", "DHT 协议 ID（默认 "+string(protocolids.DefaultKademlia)+"）")
	fs.StringVar(&o.metricsListen, "metrics-listen", "", "Prometheus /metrics 监听地址 host:port")
	fs.StringVar(&o.genIdentity, "gen-identity", "", "生成新的身份文件到指定路径后退出")
	fs.BoolVar(&o.version, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	envOverride := func(dst *string, name, env string) {
		if set[name] {
			return
		}
		if v := getenv(env); v != "" {
			*dst = v
		}
	}
	envOverride(&o.identityPath, "identity-config-file", envIdentityConfigFile)
	envOverride(&o.listenOn, "listen-on", envListenOn)
	envOverride(&o.bootstrapInterval, "bootstrap-interval", envBootstrapInterval)
	envOverride(&o.prettyLog, "pretty-log", envPrettyLog)
	envOverride(&o.logLevel, "log-level", envLogLevel)
	envOverride(&o.kadProtocol, "kad-protocol", envKadProtocol)
	envOverride(&o.metricsListen, "metrics-listen", envMetricsListen)

	return o, nil
}

// logConfig 日志配置
func (o *options) logConfig() (log.Config, error) {
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return log.Config{}, &app.ConfigError{Field: "log level", Err: err}
	}
	pretty := false
	if o.prettyLog != "" {
		pretty, err = strconv.ParseBool(o.prettyLog)
		if err != nil {
			return log.Config{}, &app.ConfigError{Field: "pretty log", Err: err}
		}
	}
	return log.Config{Level: level, Pretty: pretty}, nil
}

// appConfig 转换为节点配置
//
// 缺失的必需项留空，由 app.Config.Validate 报告。
func (o *options) appConfig() (app.Config, error) {
	cfg := app.Config{
		IdentityPath:  o.identityPath,
		KadProtocol:   protocol.ID(o.kadProtocol),
		MetricsListen: o.metricsListen,
		AgentVersion:  agentVersion(),
	}

	if o.listenOn != "" {
		addr, err := ma.NewMultiaddr(o.listenOn)
		if err != nil {
			return app.Config{}, &app.ConfigError{Field: "listen address", Err: err}
		}
		cfg.ListenOn = addr
	}

	if o.bootstrapInterval != "" {
		secs, err := strconv.ParseUint(strings.TrimSpace(o.bootstrapInterval), 10, 32)
		if err != nil {
			return app.Config{}, &app.ConfigError{
				Field: "bootstrap interval",
				Err:   fmt.Errorf("%w: %q", app.ErrInvalidBootstrapInterval, o.bootstrapInterval),
			}
		}
		cfg.BootstrapInterval = time.Duration(secs) * time.Second
	}

	return cfg, nil
}
