// Package server exposes the scorer over http
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"pwmeter/internal/common"
	"time"
)

const DefaultShutdownTimeout = 5 * time.Second

type HttpServer struct {
	Server      http.Server
	ServiceLogs chan<- common.ServiceLog
}

// Start blocks serving requests until Shutdown is called
func (s *HttpServer) Start() error {
	listener, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on addr[%s]: %w", s.Server.Addr, err)
	}
	return s.Serve(listener)
}

// Serve is Start on an existing listener
func (s *HttpServer) Serve(listener net.Listener) error {
	s.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "starting http server on %s...", listener.Addr())
	if err := s.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits up to
// DefaultShutdownTimeout for in-flight requests
func (s *HttpServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "stopping http server on %s...", s.Server.Addr)
	if err := s.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

type NewHttpServerOpts struct {
	Addr        string
	Handler     http.Handler
	ServiceLogs chan<- common.ServiceLog
}

func NewHttpServer(opts NewHttpServerOpts) (*HttpServer, error) {
	if opts.Handler == nil {
		return nil, fmt.Errorf("failed to receive a handler for addr[%s]", opts.Addr)
	}
	if opts.ServiceLogs == nil {
		opts.ServiceLogs = common.GetNoopServiceLog()
	}
	logger := GetRequestLoggerMiddleware(opts.ServiceLogs)

	return &HttpServer{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           logger(opts.Handler),
			IdleTimeout:       common.DefaultDurationConnectionTimeout,
			ReadTimeout:       common.DefaultDurationConnectionTimeout,
			ReadHeaderTimeout: common.DefaultDurationConnectionTimeout,
			WriteTimeout:      common.DefaultDurationConnectionTimeout * 3,
		},
		ServiceLogs: opts.ServiceLogs,
	}, nil
}
