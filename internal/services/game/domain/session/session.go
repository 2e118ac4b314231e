package session

import (
	"fmt"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
	"github.com/louisbranch/tictac/internal/services/game/domain/board"
)

var (
	// ErrAlreadyPaired indicates the session already has a second player.
	ErrAlreadyPaired = apperrors.New(apperrors.CodeAlreadyPaired, "session already paired")
	// ErrNotStarted indicates a move before an opponent joined.
	ErrNotStarted = apperrors.New(apperrors.CodeNotStarted, "session has no opponent yet")
	// ErrGameOver indicates a move after the session terminated.
	ErrGameOver = apperrors.New(apperrors.CodeGameOver, "session is terminated")
	// ErrWrongTurn indicates the actor's symbol is not the current turn.
	ErrWrongTurn = apperrors.New(apperrors.CodeWrongTurn, "not the actor's turn")
	// ErrNotPlayer indicates the actor is not a participant.
	ErrNotPlayer = apperrors.New(apperrors.CodeNotPlayer, "actor is not a participant")
)

// Status is a session lifecycle state.
type Status uint8

const (
	// StatusWaiting means player1 is waiting for an opponent.
	StatusWaiting Status = iota
	// StatusActive means both players are seated and moves are accepted.
	StatusActive
	// StatusTerminated means the session is chat-only.
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusActive:
		return "ACTIVE"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// EndReason records how a session reached TERMINATED.
type EndReason uint8

const (
	// EndNone means the session has not terminated.
	EndNone EndReason = iota
	// EndWin means a player completed a line.
	EndWin
	// EndDraw means the board filled with no line.
	EndDraw
	// EndDisconnect means a participant left before the game finished.
	EndDisconnect
)

// Session is one match between player1 (X) and player2 (O).
type Session struct {
	player1 string
	player2 string
	turn    board.Symbol
	board   board.Board
	status  Status
	reason  EndReason
	winner  string
}

// NewWaiting creates a WAITING session owned by player1. X moves first.
func NewWaiting(player1 string) *Session {
	return &Session{
		player1: player1,
		turn:    board.X,
		status:  StatusWaiting,
	}
}

// Key identifies the session; it is the identity of the waiting player.
func (s *Session) Key() string { return s.player1 }

// Player1 returns the identity playing X.
func (s *Session) Player1() string { return s.player1 }

// Player2 returns the identity playing O, or "" while waiting.
func (s *Session) Player2() string { return s.player2 }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Turn returns the symbol expected to move next. It is frozen once the
// session terminates.
func (s *Session) Turn() board.Symbol { return s.turn }

// Board returns a copy of the grid.
func (s *Session) Board() board.Board { return s.board }

// EndReason reports why the session terminated.
func (s *Session) EndReason() EndReason { return s.reason }

// Winner returns the winning identity after a win.
func (s *Session) Winner() (string, bool) {
	return s.winner, s.reason == EndWin
}

// Pair seats player2 as O and activates the session.
func (s *Session) Pair(player2 string) error {
	if s.player2 != "" {
		return ErrAlreadyPaired
	}
	if s.status == StatusTerminated {
		return ErrGameOver
	}
	if player2 == "" || player2 == s.player1 {
		return fmt.Errorf("pair %q into session %q: invalid opponent", player2, s.player1)
	}
	s.player2 = player2
	s.status = StatusActive
	return nil
}

// Participants returns the seated identities in seat order.
func (s *Session) Participants() []string {
	if s.player2 == "" {
		return []string{s.player1}
	}
	return []string{s.player1, s.player2}
}

// SymbolOf returns the symbol assigned to identity.
func (s *Session) SymbolOf(identity string) (board.Symbol, bool) {
	switch {
	case identity == "":
		return board.Empty, false
	case identity == s.player1:
		return board.X, true
	case identity == s.player2:
		return board.O, true
	default:
		return board.Empty, false
	}
}

// Opponent returns the other participant of identity, or "" when unpaired.
func (s *Session) Opponent(identity string) string {
	switch identity {
	case s.player1:
		return s.player2
	case s.player2:
		return s.player1
	default:
		return ""
	}
}

// Snapshot is the STATUS view for one participant.
type Snapshot struct {
	Turn     board.Symbol
	Opponent string
	Status   Status
}

// Snapshot returns the turn and the opponent relative to identity.
func (s *Session) Snapshot(identity string) Snapshot {
	return Snapshot{
		Turn:     s.turn,
		Opponent: s.Opponent(identity),
		Status:   s.status,
	}
}

// OutcomeKind classifies an accepted move.
type OutcomeKind uint8

const (
	// Continue means play passes to the next symbol.
	Continue OutcomeKind = iota
	// Win means the mover completed a line.
	Win
	// Draw means the board filled with no line.
	Draw
)

// MoveOutcome is the result of an accepted move.
type MoveOutcome struct {
	Kind   OutcomeKind
	Board  board.Board
	Turn   board.Symbol
	Winner string
}

// ApplyMove validates and applies a move by actor. A rejected move leaves
// the session untouched.
func (s *Session) ApplyMove(actor string, cell board.Cell) (MoveOutcome, error) {
	symbol, ok := s.SymbolOf(actor)
	if !ok {
		return MoveOutcome{}, ErrNotPlayer
	}
	switch s.status {
	case StatusWaiting:
		return MoveOutcome{}, ErrNotStarted
	case StatusTerminated:
		return MoveOutcome{}, ErrGameOver
	}
	if symbol != s.turn {
		return MoveOutcome{}, ErrWrongTurn
	}
	if err := s.board.Place(cell, symbol); err != nil {
		return MoveOutcome{}, err
	}

	if winner, won := s.board.Winner(); won {
		s.status = StatusTerminated
		s.reason = EndWin
		if winner == board.X {
			s.winner = s.player1
		} else {
			s.winner = s.player2
		}
		return MoveOutcome{Kind: Win, Board: s.board, Turn: s.turn, Winner: s.winner}, nil
	}
	if s.board.IsFull() {
		s.status = StatusTerminated
		s.reason = EndDraw
		return MoveOutcome{Kind: Draw, Board: s.board, Turn: s.turn}, nil
	}

	s.turn = s.turn.Opponent()
	return MoveOutcome{Kind: Continue, Board: s.board, Turn: s.turn}, nil
}

// Abandon terminates the session because a participant left. It is a no-op
// on a session that already terminated.
func (s *Session) Abandon() {
	if s.status == StatusTerminated {
		return
	}
	s.status = StatusTerminated
	s.reason = EndDisconnect
}
