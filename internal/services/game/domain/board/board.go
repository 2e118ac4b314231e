package board

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
)

var (
	// ErrOutOfBounds indicates a cell outside the 3x3 grid.
	ErrOutOfBounds = apperrors.New(apperrors.CodeOutOfBounds, "cell is out of bounds")
	// ErrCellOccupied indicates the target cell already holds a symbol.
	ErrCellOccupied = apperrors.New(apperrors.CodeCellOccupied, "cell is occupied")
	// ErrInvalidBoard indicates a wire board that cannot be decoded.
	ErrInvalidBoard = apperrors.New(apperrors.CodeInvalidBoard, "invalid board")
)

// Board is a 3x3 grid. The zero value is an empty board.
type Board struct {
	cells [Size][Size]Symbol
}

// lines lists every three-in-a-row in scan order: rows, columns, main
// diagonal, anti-diagonal.
var lines = func() [][Size]Cell {
	out := make([][Size]Cell, 0, 2*Size+2)
	for r := 0; r < Size; r++ {
		out = append(out, [Size]Cell{{r, 0}, {r, 1}, {r, 2}})
	}
	for c := 0; c < Size; c++ {
		out = append(out, [Size]Cell{{0, c}, {1, c}, {2, c}})
	}
	out = append(out, [Size]Cell{{0, 0}, {1, 1}, {2, 2}})
	out = append(out, [Size]Cell{{0, 2}, {1, 1}, {2, 0}})
	return out
}()

// Place sets cell to symbol. It never overwrites an occupied cell.
func (b *Board) Place(cell Cell, symbol Symbol) error {
	if !cell.Valid() {
		return fmt.Errorf("place %d,%d: %w", cell.Row, cell.Col, ErrOutOfBounds)
	}
	if symbol != X && symbol != O {
		return fmt.Errorf("place %s: invalid symbol %d", cell, symbol)
	}
	if b.cells[cell.Row][cell.Col] != Empty {
		return fmt.Errorf("place %s: %w", cell, ErrCellOccupied)
	}
	b.cells[cell.Row][cell.Col] = symbol
	return nil
}

// At returns the symbol at cell, or Empty for cells off the board.
func (b Board) At(cell Cell) Symbol {
	if !cell.Valid() {
		return Empty
	}
	return b.cells[cell.Row][cell.Col]
}

// Winner returns the symbol holding a complete line, if any.
func (b Board) Winner() (Symbol, bool) {
	for _, line := range lines {
		first := b.At(line[0])
		if first == Empty {
			continue
		}
		if b.At(line[1]) == first && b.At(line[2]) == first {
			return first, true
		}
	}
	return Empty, false
}

// IsFull reports whether no cell is empty.
func (b Board) IsFull() bool {
	return b.Placed() == Size*Size
}

// Placed returns the number of occupied cells.
func (b Board) Placed() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.cells[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// String encodes the board in wire format: occupied cells in row-major order
// as "A1:X,B2:O". An empty board encodes as "".
func (b Board) String() string {
	parts := make([]string, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if s := b.cells[r][c]; s != Empty {
				parts = append(parts, Cell{Row: r, Col: c}.String()+":"+s.String())
			}
		}
	}
	return strings.Join(parts, ",")
}

// Parse decodes the wire format produced by String. Cell letters are
// accepted in either case; a cell may appear at most once.
func Parse(raw string) (Board, error) {
	var b Board
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return b, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		ref, sym, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return Board{}, fmt.Errorf("parse entry %q: %w", entry, ErrInvalidBoard)
		}
		cell, err := ParseCell(ref)
		if err != nil {
			return Board{}, fmt.Errorf("parse entry %q: %w", entry, ErrInvalidBoard)
		}
		symbol, err := ParseSymbol(sym)
		if err != nil {
			return Board{}, fmt.Errorf("parse entry %q: %w", entry, ErrInvalidBoard)
		}
		if err := b.Place(cell, symbol); err != nil {
			return Board{}, apperrors.Wrap(apperrors.CodeInvalidBoard, fmt.Sprintf("parse entry %q", entry), err)
		}
	}
	return b, nil
}
