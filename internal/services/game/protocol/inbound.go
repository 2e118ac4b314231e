package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
	"github.com/louisbranch/tictac/internal/services/game/domain/board"
)

// MaxChatRunes caps the length of one chat message.
const MaxChatRunes = 500

var (
	// ErrUnknownCommand rejects lines that match no command.
	ErrUnknownCommand = apperrors.New(apperrors.CodeUnknownCommand, "unknown command")
	// ErrMalformedMove rejects MOVE lines without a valid cell.
	ErrMalformedMove = apperrors.New(apperrors.CodeMalformedMove, "malformed MOVE command")
	// ErrEmptyChat rejects chat lines with no text.
	ErrEmptyChat = apperrors.New(apperrors.CodeEmptyChat, "empty chat message")
)

// Kind identifies an inbound command.
type Kind uint8

const (
	// KindNone is a blank line; it is ignored.
	KindNone Kind = iota
	KindMove
	KindChat
	KindStatus
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindChat:
		return "chat"
	case KindStatus:
		return "status"
	case KindExit:
		return "exit"
	default:
		return "none"
	}
}

// Command is one parsed inbound line.
type Command struct {
	Kind Kind
	Cell board.Cell
	Text string
}

// Parse parses one inbound line. Surrounding whitespace is ignored; chat text
// keeps everything after the single space that follows the tag.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: KindNone}, nil
	}

	tag, text, _ := strings.Cut(line, " ")
	rest := strings.TrimSpace(text)

	switch strings.ToUpper(tag) {
	case "MOVE":
		args := strings.Fields(rest)
		if len(args) != 1 {
			return Command{}, ErrMalformedMove
		}
		cell, err := board.ParseCell(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("parse move %q: %w", args[0], ErrMalformedMove)
		}
		return Command{Kind: KindMove, Cell: cell}, nil
	case "CHAT":
		if rest == "" {
			return Command{}, ErrEmptyChat
		}
		if utf8.RuneCountInString(text) > MaxChatRunes {
			return Command{}, apperrors.WithMetadata(apperrors.CodeChatTooLong, "chat message too long", map[string]string{
				"Limit": strconv.Itoa(MaxChatRunes),
			})
		}
		return Command{Kind: KindChat, Text: text}, nil
	case "STATUS":
		return Command{Kind: KindStatus}, nil
	case "EXIT":
		if rest != "" {
			return Command{}, ErrUnknownCommand
		}
		return Command{Kind: KindExit}, nil
	}

	if rest == "" {
		if cell, err := board.ParseCell(tag); err == nil {
			return Command{Kind: KindMove, Cell: cell}, nil
		}
	}
	return Command{}, ErrUnknownCommand
}
