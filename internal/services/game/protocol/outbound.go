package protocol

import (
	"github.com/louisbranch/tictac/internal/services/game/domain/board"
)

// Outbound message tags.
const (
	TagOpponent             = "OPPONENT"
	TagBoard                = "BOARD"
	TagTurn                 = "TURN"
	TagSymbol               = "SYMBOL"
	TagWaiting              = "WAITING"
	TagWin                  = "WIN"
	TagDraw                 = "DRAW"
	TagOpponentDisconnected = "OPPONENT_DISCONNECTED"
	TagChat                 = "CHAT"
	TagError                = "ERROR"
	TagStatus               = "STATUS"
)

// Line joins a tag and payload with a single space. The space is kept even
// when payload is empty, so an empty board is sent as "BOARD ".
func Line(tag, payload string) string {
	return tag + " " + payload
}

// Opponent announces the opponent identity.
func Opponent(identity string) string { return Line(TagOpponent, identity) }

// Board sends a full board snapshot in wire format.
func Board(b board.Board) string { return Line(TagBoard, b.String()) }

// Turn announces the symbol expected to move next.
func Turn(s board.Symbol) string { return Line(TagTurn, s.String()) }

// Symbol tells a client which symbol it plays.
func Symbol(s board.Symbol) string { return Line(TagSymbol, s.String()) }

// Waiting tells a client no opponent is available yet.
func Waiting(text string) string { return Line(TagWaiting, text) }

// Win announces the winning identity followed by free text.
func Win(winner, text string) string { return Line(TagWin, winner+" "+text) }

// Draw announces a drawn game.
func Draw(text string) string { return Line(TagDraw, text) }

// OpponentDisconnected tells the remaining participant the session ended.
func OpponentDisconnected(text string) string { return Line(TagOpponentDisconnected, text) }

// Chat relays a chat message from sender.
func Chat(sender, text string) string { return Line(TagChat, sender+":"+text) }

// Error rejects the last command.
func Error(text string) string { return Line(TagError, text) }

// StatusOK terminates a STATUS reply.
func StatusOK() string { return TagStatus + " OK" }
