package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

// defaultMaxLineBytes caps one inbound line, terminator excluded.
const defaultMaxLineBytes = 4 << 10

// Connection is one client's line-oriented byte stream.
type Connection interface {
	// ReceiveLine blocks for the next line with its terminator removed.
	// It returns io.EOF when the client hung up.
	ReceiveLine() (string, error)
	// SendLine writes one line; the transport adds the framing.
	SendLine(line string) error
	// RemoteAddr is the client's "host:port".
	RemoteAddr() string
	// Close is safe to call more than once.
	Close() error
}

type tcpConnection struct {
	conn         net.Conn
	scanner      *bufio.Scanner
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newTCPConnection(conn net.Conn, maxLineBytes int, writeTimeout time.Duration) *tcpConnection {
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	scanner := bufio.NewScanner(conn)
	// The scanner needs room for the terminator as well.
	scanner.Buffer(make([]byte, 0, 512), maxLineBytes+2)
	return &tcpConnection{conn: conn, scanner: scanner, writeTimeout: writeTimeout}
}

func (c *tcpConnection) ReceiveLine() (string, error) {
	if c.scanner.Scan() {
		return strings.TrimRight(c.scanner.Text(), "\r"), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}
	return "", io.EOF
}

func (c *tcpConnection) SendLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

func (c *tcpConnection) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func (c *tcpConnection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

type wsConnection struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newWSConnection(conn *websocket.Conn, maxLineBytes int, writeTimeout time.Duration) *wsConnection {
	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	conn.PayloadType = websocket.TextFrame
	conn.MaxPayloadBytes = maxLineBytes
	return &wsConnection{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsConnection) ReceiveLine() (string, error) {
	var frame string
	if err := websocket.Message.Receive(c.conn, &frame); err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read frame: %w", err)
	}
	return strings.TrimRight(frame, "\r\n"), nil
}

func (c *wsConnection) SendLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if err := websocket.Message.Send(c.conn, line); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// RemoteAddr uses the HTTP request's peer address; websocket.Conn.RemoteAddr
// reports the Origin instead.
func (c *wsConnection) RemoteAddr() string {
	if request := c.conn.Request(); request != nil {
		return request.RemoteAddr
	}
	return ""
}

func (c *wsConnection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
