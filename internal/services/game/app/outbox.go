package server

import (
	"sync"

	"go.uber.org/zap"
)

// defaultOutboxSize bounds the lines queued for one slow client.
const defaultOutboxSize = 64

// outbox queues lines for one connection and writes them from a single
// goroutine, so enqueue order is delivery order. It implements
// registry.Peer.
type outbox struct {
	conn   Connection
	logger *zap.Logger

	lines    chan string
	done     chan struct{}
	draining chan struct{}
	exited   chan struct{}

	closeOnce sync.Once
	drainOnce sync.Once
}

func newOutbox(conn Connection, size int, logger *zap.Logger) *outbox {
	if size <= 0 {
		size = defaultOutboxSize
	}
	return &outbox{
		conn:     conn,
		logger:   logger,
		lines:    make(chan string, size),
		done:     make(chan struct{}),
		draining: make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Send enqueues line without blocking. A full outbox means the client
// stopped reading; the connection is closed and its worker cleans up.
func (o *outbox) Send(line string) {
	select {
	case <-o.done:
		return
	default:
	}
	select {
	case o.lines <- line:
	default:
		o.logger.Warn("outbox full, closing connection", zap.String("remote", o.conn.RemoteAddr()))
		// Send runs under the registry lock; closing may block on the wire.
		go func() { _ = o.Close() }()
	}
}

// Close stops the writer and closes the connection. Queued lines are
// discarded.
func (o *outbox) Close() error {
	var err error
	o.closeOnce.Do(func() {
		close(o.done)
		err = o.conn.Close()
	})
	return err
}

// Drain asks the writer to flush what is queued and exit, then waits.
func (o *outbox) Drain() {
	o.drainOnce.Do(func() { close(o.draining) })
	<-o.exited
}

func (o *outbox) run() {
	defer close(o.exited)
	for {
		select {
		case line := <-o.lines:
			if !o.write(line) {
				return
			}
		case <-o.draining:
			for {
				select {
				case line := <-o.lines:
					if !o.write(line) {
						return
					}
				default:
					return
				}
			}
		case <-o.done:
			return
		}
	}
}

func (o *outbox) write(line string) bool {
	if err := o.conn.SendLine(line); err != nil {
		o.logger.Debug("write failed", zap.String("remote", o.conn.RemoteAddr()), zap.Error(err))
		_ = o.Close()
		return false
	}
	return true
}
