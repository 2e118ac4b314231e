package server

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
)

func TestOutboxDeliversInOrderAndDrains(t *testing.T) {
	conn := newScriptConn("127.0.0.1:1")
	peer := newOutbox(conn, 16, zap.NewNop())
	go peer.run()

	for i := range 10 {
		peer.Send(fmt.Sprintf("CHAT a:%d", i))
	}
	peer.Drain()

	for i := range 10 {
		conn.expect(t, fmt.Sprintf("CHAT a:%d", i))
	}
	if conn.isClosed() {
		t.Fatal("drain must not close the connection")
	}
}

func TestOutboxOverflowClosesConnection(t *testing.T) {
	conn := newScriptConn("127.0.0.1:1")
	conn.out = make(chan string) // nobody reads: the writer blocks
	peer := newOutbox(conn, 1, zap.NewNop())
	go peer.run()

	for i := range 4 {
		peer.Send(fmt.Sprintf("line %d", i))
	}
	conn.waitClosed(t)
	peer.Drain()
}

func TestOutboxSendAfterCloseIsDropped(t *testing.T) {
	conn := newScriptConn("127.0.0.1:1")
	peer := newOutbox(conn, 4, zap.NewNop())
	go peer.run()

	if err := peer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := peer.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	peer.Send("TURN X")
	peer.Drain()
	conn.expectQuiet(t)
}
