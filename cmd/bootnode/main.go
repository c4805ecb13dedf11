// Package main 提供 bootnode 命令行入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dep2p/bootnode/internal/app"
	"github.com/dep2p/bootnode/internal/core/identity"
	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("cmd/bootnode")

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, getenv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.version {
		fmt.Fprintln(stdout, VersionInfo())
		return nil
	}

	if opts.genIdentity != "" {
		id, err := genIdentity(opts.genIdentity)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "identity written to %s (peer id %s)\n", opts.genIdentity, id.ID())
		return nil
	}

	logCfg, err := opts.logConfig()
	if err != nil {
		return err
	}
	log.Setup(logCfg)

	cfg, err := opts.appConfig()
	if err != nil {
		return err
	}

	logger.Info("starting bootnode", "version", Version, "commit", GitCommit, "buildDate", BuildDate)

	node, err := app.New(cfg)
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), node.StartTimeout())
	defer cancel()
	if err := node.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	sig := waitForSignal()
	logger.Info("shutting down", "signal", sig.String())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), node.StopTimeout())
	defer stopCancel()
	if err := node.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// genIdentity 生成新身份并写入文件
func genIdentity(path string) (*identity.Identity, error) {
	id, err := identity.Generate()
	if err != nil {
		return nil, err
	}
	if err := identity.WriteFile(path, id); err != nil {
		return nil, fmt.Errorf("write identity %s: %w", path, err)
	}
	return id, nil
}

// waitForSignal 等待退出信号
func waitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
