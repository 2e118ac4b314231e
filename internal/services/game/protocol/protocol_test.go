package protocol

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
	"github.com/louisbranch/tictac/internal/services/game/domain/board"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{line: "MOVE A1", want: Command{Kind: KindMove, Cell: board.Cell{Row: 0, Col: 0}}},
		{line: "move c3", want: Command{Kind: KindMove, Cell: board.Cell{Row: 2, Col: 2}}},
		{line: "  Move   b2  ", want: Command{Kind: KindMove, Cell: board.Cell{Row: 1, Col: 1}}},
		{line: "B3", want: Command{Kind: KindMove, Cell: board.Cell{Row: 1, Col: 2}}},
		{line: "a2", want: Command{Kind: KindMove, Cell: board.Cell{Row: 0, Col: 1}}},
		{line: "chat hello there", want: Command{Kind: KindChat, Text: "hello there"}},
		{line: "CHAT  gg  ", want: Command{Kind: KindChat, Text: " gg"}},
		{line: "chat   hi  there", want: Command{Kind: KindChat, Text: "  hi  there"}},
		{line: "STATUS", want: Command{Kind: KindStatus}},
		{line: "status", want: Command{Kind: KindStatus}},
		{line: "exit", want: Command{Kind: KindExit}},
		{line: "EXIT", want: Command{Kind: KindExit}},
		{line: "", want: Command{Kind: KindNone}},
		{line: "   \r", want: Command{Kind: KindNone}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.line)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.line, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{line: "MOVE", want: ErrMalformedMove},
		{line: "MOVE D1", want: ErrMalformedMove},
		{line: "MOVE A4", want: ErrMalformedMove},
		{line: "MOVE A1 B2", want: ErrMalformedMove},
		{line: "MOVE 11", want: ErrMalformedMove},
		{line: "chat", want: ErrEmptyChat},
		{line: "chat    ", want: ErrEmptyChat},
		{line: "hello", want: ErrUnknownCommand},
		{line: "D4", want: ErrUnknownCommand},
		{line: "A1 B2", want: ErrUnknownCommand},
		{line: "chatter x", want: ErrUnknownCommand},
		{line: "exit now", want: ErrUnknownCommand},
		{line: "EXIT please", want: ErrUnknownCommand},
	}
	for _, tt := range tests {
		_, err := Parse(tt.line)
		if !errors.Is(err, tt.want) {
			t.Fatalf("parse %q: err = %v, want %v", tt.line, err, tt.want)
		}
	}
}

func TestParseChatLimit(t *testing.T) {
	exact := "chat " + strings.Repeat("ж", MaxChatRunes)
	if _, err := Parse(exact); err != nil {
		t.Fatalf("parse chat at limit: %v", err)
	}

	_, err := Parse("chat " + strings.Repeat("x", MaxChatRunes+1))
	if apperrors.GetCode(err) != apperrors.CodeChatTooLong {
		t.Fatalf("err = %v, want chat too long", err)
	}
	if apperrors.GetMetadata(err)["Limit"] != "500" {
		t.Fatalf("metadata = %v", apperrors.GetMetadata(err))
	}
}

func TestOutboundLines(t *testing.T) {
	b, err := board.Parse("A1:X,B2:O")
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	tests := []struct {
		got  string
		want string
	}{
		{got: Opponent("Player1"), want: "OPPONENT Player1"},
		{got: Board(board.Board{}), want: "BOARD "},
		{got: Board(b), want: "BOARD A1:X,B2:O"},
		{got: Turn(board.O), want: "TURN O"},
		{got: Symbol(board.X), want: "SYMBOL X"},
		{got: Waiting("hold on"), want: "WAITING hold on"},
		{got: Win("Player1", "won!"), want: "WIN Player1 won!"},
		{got: Draw("tie"), want: "DRAW tie"},
		{got: OpponentDisconnected("gone"), want: "OPPONENT_DISCONNECTED gone"},
		{got: Chat("Player2", "hi: there"), want: "CHAT Player2:hi: there"},
		{got: Error("nope"), want: "ERROR nope"},
		{got: StatusOK(), want: "STATUS OK"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("line = %q, want %q", tt.got, tt.want)
		}
	}
}
