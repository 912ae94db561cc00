package tcpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/nlp-text-server/internal/adapters/wire"
	"github.com/kirillkom/nlp-text-server/internal/core/domain"
	"github.com/kirillkom/nlp-text-server/internal/core/ports"
)

const defaultWriteTimeout = 5 * time.Second

// ConnectionObserver receives connection level measurements.
type ConnectionObserver interface {
	ObserveFrameError()
	SetConnectedClients(n int)
}

type Options struct {
	// RateLimitRPS caps requests per second per connection. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
	WriteTimeout   time.Duration
	Observer       ConnectionObserver
}

// Server accepts text-processing connections. Each connection gets its own
// goroutine that decodes requests and blocks on the shared queue.
type Server struct {
	queue    ports.RequestQueue
	registry ports.ClientRegistry
	opts     Options
	nextID   atomic.Int32
	wg       sync.WaitGroup
}

func NewServer(queue ports.RequestQueue, registry ports.ClientRegistry, opts Options) *Server {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 1
	}
	return &Server{queue: queue, registry: registry, opts: opts}
}

// Serve accepts until ctx is cancelled, then closes every open connection and
// waits for the handlers to exit.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	slog.Info("tcp_server_listening", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			slog.Warn("tcp_accept_failed", "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}
		s.wg.Add(1)
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()

	id := s.nextID.Add(1)
	remote := conn.RemoteAddr().String()
	if !s.registry.Register(domain.ClientRecord{ID: id, Address: remote, ConnectedAt: time.Now()}) {
		slog.Warn("client_registry_full", "client_id", id, "remote_addr", remote)
	}
	s.observeClients()
	slog.Info("client_connected", "client_id", id, "remote_addr", remote)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		_ = conn.Close()
		s.registry.Remove(id)
		s.observeClients()
	}()

	var limiter *rate.Limiter
	if s.opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.RateLimitRPS), s.opts.RateLimitBurst)
	}
	reply := &connReplier{conn: conn, timeout: s.opts.WriteTimeout}

	for {
		kind, text, err := wire.ReadRequest(conn)
		if err != nil {
			s.logReadError(id, remote, err)
			return
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		req := domain.ProcessingRequest{
			ID:         uuid.NewString(),
			ClientID:   id,
			RemoteAddr: remote,
			Kind:       kind,
			Text:       text,
			EnqueuedAt: time.Now(),
			Reply:      reply,
		}
		if err := s.queue.Enqueue(ctx, req); err != nil {
			return
		}
		s.registry.IncrementRequests(id)
		slog.Debug("request_queued", "request_id", req.ID, "client_id", id, "kind", kind.String(), "bytes", len(text))
	}
}

func (s *Server) logReadError(id int32, remote string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		slog.Info("client_disconnected", "client_id", id, "remote_addr", remote)
		return
	}
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveFrameError()
	}
	slog.Warn("frame_error", "client_id", id, "remote_addr", remote, "error", err.Error())
}

func (s *Server) observeClients() {
	if s.opts.Observer != nil {
		s.opts.Observer.SetConnectedClients(s.registry.Len())
	}
}

// connReplier writes worker responses back to the connection.
type connReplier struct {
	mu      sync.Mutex
	conn    net.Conn
	timeout time.Duration
}

func (r *connReplier) WriteResponse(resp domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conn.SetWriteDeadline(time.Now().Add(r.timeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := wire.WriteResponse(r.conn, resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
