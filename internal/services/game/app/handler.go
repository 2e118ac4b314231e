package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
	errorsi18n "github.com/louisbranch/tictac/internal/platform/errors/i18n"
	"github.com/louisbranch/tictac/internal/services/game/protocol"
	"github.com/louisbranch/tictac/internal/services/game/registry"
)

const (
	// maxLinesPerSecond closes connections that flood the server.
	maxLinesPerSecond = 40
	// maxIdentityAttempts bounds the Player<port>-<n> fallback search.
	maxIdentityAttempts = 16

	tracerName = "github.com/louisbranch/tictac/internal/services/game/app"
)

var errRateLimited = apperrors.WithMetadata(apperrors.CodeRateLimited, "too many lines", map[string]string{
	"Limit": strconv.Itoa(maxLinesPerSecond),
})

// Handler runs the protocol loop for client connections.
type Handler struct {
	registry   *registry.Registry
	errors     *errorsi18n.Catalog
	logger     *zap.Logger
	tracer     trace.Tracer
	outboxSize int

	mu     sync.Mutex
	closed bool
	active sync.WaitGroup
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Locale selects the language of ERROR payloads.
	Locale string
	// OutboxSize bounds queued outbound lines per connection.
	OutboxSize int
	Logger     *zap.Logger
}

// NewHandler creates a protocol handler bound to reg.
func NewHandler(reg *registry.Registry, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry:   reg,
		errors:     errorsi18n.GetCatalog(cfg.Locale),
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
		outboxSize: cfg.OutboxSize,
	}
}

// Serve owns conn until the client leaves, sends EXIT, or the connection is
// closed from elsewhere. Registry cleanup runs exactly once on every path.
// Connections offered after Wait has started are closed immediately.
func (h *Handler) Serve(ctx context.Context, conn Connection) {
	if !h.admit() {
		h.reject(conn)
		return
	}
	defer h.active.Done()
	h.serve(ctx, conn)
}

// Go runs Serve on a new goroutine, counting it before returning.
func (h *Handler) Go(ctx context.Context, conn Connection) {
	if !h.admit() {
		h.reject(conn)
		return
	}
	go func() {
		defer h.active.Done()
		h.serve(ctx, conn)
	}()
}

func (h *Handler) admit() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.active.Add(1)
	return true
}

func (h *Handler) reject(conn Connection) {
	h.logger.Debug("connection refused during shutdown", zap.String("remote", conn.RemoteAddr()))
	_ = conn.Close()
}

func (h *Handler) serve(ctx context.Context, conn Connection) {
	peer := newOutbox(conn, h.outboxSize, h.logger)
	if !h.registry.Attach(peer) {
		h.reject(conn)
		return
	}
	go peer.run()
	defer func() {
		_ = peer.Close()
		h.registry.Detach(peer)
	}()

	identity, err := h.connect(conn.RemoteAddr(), peer)
	if err != nil {
		h.logger.Warn("connect rejected", zap.String("remote", conn.RemoteAddr()), zap.Error(err))
		peer.Send(protocol.Error(h.errors.Error(err)))
		peer.Drain()
		return
	}
	logger := h.logger.With(zap.String("player", identity))
	logger.Info("player connected",
		zap.String("remote", conn.RemoteAddr()),
		zap.String("locale", h.errors.Locale()),
	)
	defer func() {
		h.registry.Disconnect(identity)
		peer.Drain()
		logger.Info("player disconnected")
	}()

	windowStart := time.Now()
	linesInWindow := 0
	for {
		line, err := conn.ReceiveLine()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Debug("receive failed", zap.Error(err))
			return
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			linesInWindow = 0
		}
		linesInWindow++
		if linesInWindow > maxLinesPerSecond {
			logger.Warn("rate limit exceeded, closing connection")
			peer.Send(protocol.Error(h.errors.Error(errRateLimited)))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !h.dispatch(ctx, logger, identity, peer, line) {
			return
		}
	}
}

// Wait stops admitting connections, then blocks until every Serve call has
// returned or ctx ends.
func (h *Handler) Wait(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.active.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for connections: %w", ctx.Err())
	}
}

// dispatch handles one inbound line and reports whether the loop continues.
func (h *Handler) dispatch(ctx context.Context, logger *zap.Logger, identity string, peer *outbox, line string) bool {
	cmd, err := protocol.Parse(line)
	_, span := h.tracer.Start(ctx, "game.command", trace.WithAttributes(
		attribute.String("player", identity),
		attribute.String("command", cmd.Kind.String()),
	))
	defer span.End()

	if err == nil {
		err = h.execute(identity, cmd)
	}
	if err != nil {
		code := apperrors.GetCode(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		logger.Debug("command rejected",
			zap.String("command", cmd.Kind.String()),
			zap.String("code", string(code)),
			zap.Bool("not_active", code.NotActive()),
			zap.Error(err),
		)
		peer.Send(protocol.Error(h.errors.Error(err)))
		return true
	}
	return cmd.Kind != protocol.KindExit
}

func (h *Handler) execute(identity string, cmd protocol.Command) error {
	switch cmd.Kind {
	case protocol.KindMove:
		_, err := h.registry.Move(identity, cmd.Cell)
		return err
	case protocol.KindChat:
		return h.registry.Chat(identity, cmd.Text)
	case protocol.KindStatus:
		_, err := h.registry.Status(identity)
		return err
	case protocol.KindExit:
		return nil
	default:
		return protocol.ErrUnknownCommand
	}
}

// connect registers the connection as Player<port>, falling back to
// Player<port>-<n> while that identity is held by another live connection.
func (h *Handler) connect(remoteAddr string, peer *outbox) (string, error) {
	base := IdentityFor(remoteAddr)
	identity := base
	var err error
	for attempt := 1; attempt <= maxIdentityAttempts; attempt++ {
		if attempt > 1 {
			identity = fmt.Sprintf("%s-%d", base, attempt)
		}
		_, err = h.registry.Connect(identity, peer)
		if err == nil {
			return identity, nil
		}
		if apperrors.GetCode(err) != apperrors.CodeIdentityInUse {
			return "", err
		}
	}
	return "", err
}

// IdentityFor derives a player identity from a remote "host:port".
func IdentityFor(remoteAddr string) string {
	_, port, err := net.SplitHostPort(remoteAddr)
	if err != nil || port == "" {
		return "Player"
	}
	return "Player" + port
}
