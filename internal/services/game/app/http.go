package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/websocket"
)

// TransportOptions tunes line framing for one transport.
type TransportOptions struct {
	MaxLineBytes int
	WriteTimeout time.Duration
}

// NewHTTPHandler serves GET /up and the /ws WebSocket line transport.
// Every WebSocket session runs under ctx.
func NewHTTPHandler(ctx context.Context, h *Handler, opts TransportOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		h.Serve(ctx, newWSConnection(conn, opts.MaxLineBytes, opts.WriteTimeout))
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})
	return mux
}
