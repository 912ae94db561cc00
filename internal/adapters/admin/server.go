package adminadapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/kirillkom/nlp-text-server/internal/adapters/wire"
	"github.com/kirillkom/nlp-text-server/internal/core/ports"
)

const defaultConnTimeout = 5 * time.Second

// Server answers one admin command per connection. Connections are served
// one at a time on the accept loop.
type Server struct {
	reporter    ports.AdminReporter
	connTimeout time.Duration
}

func NewServer(reporter ports.AdminReporter, connTimeout time.Duration) *Server {
	if connTimeout <= 0 {
		connTimeout = defaultConnTimeout
	}
	return &Server{reporter: reporter, connTimeout: connTimeout}
}

// ListenUnix removes a stale socket file at path and listens on it.
func ListenUnix(path string) (net.Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale admin socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen admin socket: %w", err)
	}
	return ln, nil
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	slog.Info("admin_server_listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("admin_accept_failed", "error", err.Error())
			continue
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(s.connTimeout))

	cmd, err := wire.ReadAdminRequest(conn)
	if err != nil {
		slog.Warn("admin_read_failed", "error", err.Error())
		return
	}
	resp := s.reporter.Report(cmd)
	if err := wire.WriteAdminResponse(conn, resp); err != nil {
		slog.Warn("admin_write_failed", "command", cmd.String(), "error", err.Error())
		return
	}
	slog.Info("admin_command",
		"command", cmd.String(),
		"status", resp.Status.String(),
		"clients", len(resp.Clients),
		"queue_size", resp.QueueSize,
	)
}
