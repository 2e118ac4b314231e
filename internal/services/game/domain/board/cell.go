package board

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
)

// Size is the number of rows and columns.
const Size = 3

// Cell addresses one square. Row 0 is "A", column 0 is "1".
type Cell struct {
	Row int
	Col int
}

// Valid reports whether the cell lies on the board.
func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// String renders the cell as <RowLetter><ColDigit>, e.g. "B3".
func (c Cell) String() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.Row), c.Col+1)
}

// ParseCell parses a cell reference matching ^[A-Ca-c][1-3]$.
func ParseCell(raw string) (Cell, error) {
	if len(raw) != 2 {
		return Cell{}, apperrors.New(apperrors.CodeMalformedMove, fmt.Sprintf("malformed cell %q", raw))
	}
	row := strings.IndexByte("ABC", upper(raw[0]))
	col := strings.IndexByte("123", raw[1])
	if row < 0 || col < 0 {
		return Cell{}, apperrors.New(apperrors.CodeMalformedMove, fmt.Sprintf("malformed cell %q", raw))
	}
	return Cell{Row: row, Col: col}, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
