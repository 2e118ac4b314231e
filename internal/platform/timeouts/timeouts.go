// Package timeouts defines shared timeout constants used across the server
// and its commands.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the admin health service.
const GRPCDial = 2 * time.Second

// HealthProbe caps how long a -check-health probe waits for SERVING.
const HealthProbe = 5 * time.Second

// ReadHeader limits how long the HTTP surface waits for request headers.
const ReadHeader = 5 * time.Second

// Write limits how long a single outbound line may take to reach a client
// before the connection is treated as dead.
const Write = 10 * time.Second

// Shutdown limits how long servers wait for in-flight work during graceful
// shutdown.
const Shutdown = 5 * time.Second
