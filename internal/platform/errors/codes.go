// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Board errors
	CodeOutOfBounds  Code = "OUT_OF_BOUNDS"
	CodeCellOccupied Code = "CELL_OCCUPIED"
	CodeInvalidBoard Code = "INVALID_BOARD"

	// Session errors
	CodeAlreadyPaired Code = "ALREADY_PAIRED"
	CodeNotStarted    Code = "NOT_STARTED"
	CodeGameOver      Code = "GAME_OVER"
	CodeWrongTurn     Code = "WRONG_TURN"
	CodeNotPlayer     Code = "NOT_PLAYER"

	// Registry errors
	CodeNoActiveGame  Code = "NO_ACTIVE_GAME"
	CodeIdentityInUse Code = "IDENTITY_IN_USE"

	// Protocol errors
	CodeUnknownCommand Code = "UNKNOWN_COMMAND"
	CodeMalformedMove  Code = "MALFORMED_MOVE"
	CodeEmptyChat      Code = "EMPTY_CHAT"
	CodeChatTooLong    Code = "CHAT_TOO_LONG"
	CodeRateLimited    Code = "RATE_LIMITED"
)

// NotActive reports whether the code rejects a move because the session is
// not in its ACTIVE state.
func (c Code) NotActive() bool {
	return c == CodeNotStarted || c == CodeGameOver
}
