package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestTCPConnectionReadsLines(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := newTCPConnection(server, 0, time.Second)
	defer conn.Close()

	go func() {
		_, _ = io.WriteString(client, "MOVE A1\r\nCHAT hi there\n")
		_ = client.Close()
	}()

	for _, want := range []string{"MOVE A1", "CHAT hi there"} {
		got, err := conn.ReceiveLine()
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if got != want {
			t.Fatalf("line = %q, want %q", got, want)
		}
	}
	if _, err := conn.ReceiveLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestTCPConnectionRejectsLongLines(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := newTCPConnection(server, 8, time.Second)
	defer conn.Close()

	go func() {
		_, _ = io.WriteString(client, strings.Repeat("x", 64)+"\n")
	}()

	_, err := conn.ReceiveLine()
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("err = %v, want too long", err)
	}
}

func TestTCPConnectionSendsLines(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := newTCPConnection(server, 0, time.Second)

	go func() {
		_ = conn.SendLine("TURN X")
		_ = conn.SendLine("STATUS OK")
	}()

	reader := bufio.NewReader(client)
	for _, want := range []string{"TURN X\n", "STATUS OK\n"} {
		got, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != want {
			t.Fatalf("line = %q, want %q", got, want)
		}
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := conn.SendLine("late"); err == nil {
		t.Fatal("expected send after close to fail")
	}
}

func TestTCPConnectionWriteTimeout(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := newTCPConnection(server, 0, 50*time.Millisecond)
	defer conn.Close()

	// Nobody reads from client, so the pipe write blocks until the deadline.
	err := conn.SendLine("BOARD A1:X")
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Fatalf("err = %v, want timeout", err)
	}
}
