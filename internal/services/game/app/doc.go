// Package server runs the game's network surfaces.
//
// It accepts client connections over TCP (newline-delimited lines) and,
// optionally, WebSocket (one text frame per line), assigns each one an
// identity, and drives the per-connection protocol loop against the shared
// registry. An optional gRPC health endpoint reports readiness.
package server
