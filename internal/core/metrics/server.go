package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/bootnode/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Server /metrics HTTP 服务
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Listen 在 addr 上启动 /metrics 服务
func (m *Metrics) Listen(addr string) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
	s := &Server{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: l,
	}

	go func() {
		if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics server listening", "addr", l.Addr().String())
	return s, nil
}

// Addr 返回实际监听地址
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown 停止服务
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
