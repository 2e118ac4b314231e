package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	platformgrpc "github.com/louisbranch/tictac/internal/platform/grpc"
	"github.com/louisbranch/tictac/internal/platform/timeouts"
	"github.com/louisbranch/tictac/internal/services/game/registry"
)

// HealthService is the gRPC health service name the game reports.
const HealthService = "tictac.game"

// Config configures the game server.
type Config struct {
	// Addr is the TCP line transport listen address.
	Addr string
	// HTTPAddr enables /up and /ws when set.
	HTTPAddr string
	// AdminAddr enables the gRPC health service when set.
	AdminAddr string
	// Locale selects the language of free-text payloads.
	Locale string

	MaxLineBytes      int
	OutboxSize        int
	WriteTimeout      time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	Logger *zap.Logger
}

// Server owns the listeners and the registry for one game process.
type Server struct {
	registry *registry.Registry
	handler  *Handler
	logger   *zap.Logger

	listener        net.Listener
	httpListener    net.Listener
	httpServer      *http.Server
	admin           *platformgrpc.HealthServer
	transport       TransportOptions
	shutdownTimeout time.Duration
	readHeader      time.Duration

	closeOnce sync.Once
}

// NewServer binds every configured listener. Binding eagerly lets callers
// use ":0" addresses and read the chosen ports before serving.
func NewServer(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("listen address is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = timeouts.Write
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = timeouts.Shutdown
	}

	reg := registry.New(registry.Config{Locale: cfg.Locale, Logger: logger.Named("registry")})
	s := &Server{
		registry: reg,
		handler: NewHandler(reg, HandlerConfig{
			Locale:     cfg.Locale,
			OutboxSize: cfg.OutboxSize,
			Logger:     logger,
		}),
		logger:          logger,
		transport:       TransportOptions{MaxLineBytes: cfg.MaxLineBytes, WriteTimeout: cfg.WriteTimeout},
		shutdownTimeout: cfg.ShutdownTimeout,
		readHeader:      cfg.ReadHeaderTimeout,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = listener

	if httpAddr := strings.TrimSpace(cfg.HTTPAddr); httpAddr != "" {
		httpListener, err := net.Listen("tcp", httpAddr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("listen http on %s: %w", httpAddr, err)
		}
		s.httpListener = httpListener
	}

	if adminAddr := strings.TrimSpace(cfg.AdminAddr); adminAddr != "" {
		admin, err := platformgrpc.NewHealthServer(adminAddr, logger.Named("admin"), HealthService)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.admin = admin
	}
	return s, nil
}

// Run creates a server and serves until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := NewServer(cfg)
	if err != nil {
		return fmt.Errorf("init game server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve game: %w", err)
	}
	return nil
}

// Addr returns the bound TCP address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// HTTPAddr returns the bound HTTP address, or "" when disabled.
func (s *Server) HTTPAddr() string {
	if s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// AdminAddr returns the bound admin address, or "" when disabled.
func (s *Server) AdminAddr() string {
	if s.admin == nil {
		return ""
	}
	return s.admin.Addr()
}

// Registry exposes the server's registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// ListenAndServe serves every surface until ctx ends or one fails, then
// closes all client connections and waits for their workers.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("game server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 3)
	acceptDone := make(chan struct{})
	s.logger.Info("game server listening", zap.String("addr", s.Addr()))
	go func() {
		defer close(acceptDone)
		serveErr <- s.acceptLoop(serveCtx)
	}()

	if s.httpListener != nil {
		s.httpServer = &http.Server{
			Handler:           NewHTTPHandler(serveCtx, s.handler, s.transport),
			ReadHeaderTimeout: s.readHeader,
		}
		s.logger.Info("http surface listening", zap.String("addr", s.HTTPAddr()))
		go func() {
			err := s.httpServer.Serve(s.httpListener)
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			if err != nil {
				err = fmt.Errorf("serve http: %w", err)
			}
			serveErr <- err
		}()
	}

	if s.admin != nil {
		s.admin.SetServing(true)
		go func() {
			serveErr <- s.admin.Serve(serveCtx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}
	cancel()

	if s.admin != nil {
		s.admin.SetServing(false)
	}
	_ = s.listener.Close()
	<-acceptDone

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancelShutdown()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
			runErr = fmt.Errorf("shutdown http server: %w", err)
		}
	}

	stats := s.registry.Stats()
	s.registry.CloseAll()
	if err := s.handler.Wait(shutdownCtx); err != nil {
		s.logger.Warn("connections still open at shutdown", zap.Error(err))
	}
	s.logger.Info("game server stopped",
		zap.Int("players", stats.Players),
		zap.Int("waiting", stats.Waiting),
		zap.Int("active", stats.Active),
		zap.Int("terminated", stats.Terminated),
		zap.Int("connections", stats.Connections),
	)
	return runErr
}

func (s *Server) acceptLoop(ctx context.Context) error {
	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				backoff = min(max(backoff*2, 5*time.Millisecond), time.Second)
				s.logger.Warn("accept failed, retrying", zap.Duration("backoff", backoff), zap.Error(err))
				time.Sleep(backoff)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		backoff = 0
		s.handler.Go(ctx, newTCPConnection(conn, s.transport.MaxLineBytes, s.transport.WriteTimeout))
	}
}

// Close releases every listener. It is safe to call after ListenAndServe.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.listener != nil {
			_ = s.listener.Close()
		}
		if s.httpListener != nil {
			_ = s.httpListener.Close()
		}
		if s.admin != nil {
			s.admin.Close()
		}
	})
}
