package board

import "fmt"

// Symbol is a cell occupant.
type Symbol uint8

const (
	// Empty marks an unoccupied cell.
	Empty Symbol = iota
	// X always moves first.
	X
	// O moves second.
	O
)

// String returns the wire form of the symbol. Empty renders as "".
func (s Symbol) String() string {
	switch s {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the symbol that moves after s.
func (s Symbol) Opponent() Symbol {
	switch s {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseSymbol parses "X" or "O".
func ParseSymbol(raw string) (Symbol, error) {
	switch raw {
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("invalid symbol %q", raw)
	}
}
