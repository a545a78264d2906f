package game

type Cell byte

const (
	Empty Cell = '_'
	X     Cell = 'X'
	O     Cell = 'O'
)

// Board is a tic-tac-toe grid in row-major order, cell 0 top-left.
type Board [9]Cell

func NewBoard() Board {
	var b Board
	for i := range b {
		b[i] = Empty
	}
	return b
}

// triples enumerates the winning lines: rows, then columns, then diagonals.
var triples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// WinningLine returns the first completed triple in enumeration order.
// A legal board has at most one, so the order only fixes reproducibility.
func WinningLine(b Board) ([3]int, bool) {
	for _, t := range triples {
		if b[t[0]] != Empty && b[t[0]] == b[t[1]] && b[t[1]] == b[t[2]] {
			return t, true
		}
	}
	return [3]int{}, false
}

func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b Board) Empties() []int {
	out := make([]int, 0, 9)
	for i, c := range b {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// String serializes the board the way the render endpoint expects it,
// with '_' for empty cells.
func (b Board) String() string {
	return string(b[:])
}

// ParseBoard reads a 9-character board string as produced by String.
// Unknown characters come back as empty cells.
func ParseBoard(s string) Board {
	b := NewBoard()
	for i := 0; i < len(s) && i < 9; i++ {
		switch Cell(s[i]) {
		case X:
			b[i] = X
		case O:
			b[i] = O
		}
	}
	return b
}

// Other returns the opposing symbol.
func Other(c Cell) Cell {
	if c == X {
		return O
	}
	return X
}
