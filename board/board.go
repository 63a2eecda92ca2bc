// Package board contains the 3x3 tic-tac-toe grid and the rules evaluated over it.
//
// A Board is a plain array value. Every function in this package reads its
// board argument and returns a fresh value, so a board handed to the search
// engine can never be changed behind the caller's back.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns.
const Size = 3

// ErrIllegalMove is returned when a move targets an occupied cell or lies outside the grid.
var ErrIllegalMove = errors.New("illegal move")

// Cell is the content of a single square. X and O double as the two sides.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	}
	return " "
}

// Move addresses one cell. Moves are comparable and can be used as map keys.
type Move struct {
	Row int
	Col int
}

// Invalid is returned when there is no move to make.
var Invalid = Move{Row: -1, Col: -1}

// InRange reports whether the move lies inside the grid.
func (m Move) InRange() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

// Hash combines row and column into a single cell index.
func (m Move) Hash() int {
	return m.Row*Size + m.Col
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Notation renders the move as column letter and row number, e.g. "b2" for the center.
// Rows count from the top.
func (m Move) Notation() string {
	if !m.InRange() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(m.Col), m.Row+1)
}

// Board is indexed as Board[row][col].
type Board [Size][Size]Cell

// lines lists the three rows, three columns and two diagonals.
var lines = [8][Size]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Lines returns the eight winning lines.
func Lines() [8][Size]Move {
	return lines
}

// At returns the content of the cell addressed by m.
func (b Board) At(m Move) Cell {
	return b[m.Row][m.Col]
}

// IsFull returns true if no empty cell remains.
func (b Board) IsFull() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == Empty {
				return false
			}
		}
	}
	return true
}

// IsWinner returns true if side occupies any complete line.
func (b Board) IsWinner(side Cell) bool {
	if side == Empty {
		return false
	}
	for _, line := range lines {
		if b.At(line[0]) == side && b.At(line[1]) == side && b.At(line[2]) == side {
			return true
		}
	}
	return false
}

// WinningLine returns the first line completed by side.
func (b Board) WinningLine(side Cell) ([Size]Move, bool) {
	if side == Empty {
		return [Size]Move{}, false
	}
	for _, line := range lines {
		if b.At(line[0]) == side && b.At(line[1]) == side && b.At(line[2]) == side {
			return line, true
		}
	}
	return [Size]Move{}, false
}

// Winner returns X or O if that side has a complete line, otherwise Empty.
func (b Board) Winner() Cell {
	if b.IsWinner(X) {
		return X
	}
	if b.IsWinner(O) {
		return O
	}
	return Empty
}

// Count returns the number of cells holding c.
func (b Board) Count(c Cell) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == c {
				n++
			}
		}
	}
	return n
}

// CurrentPlayer derives whose turn it is from the number of occupied cells.
// X plays on even counts and O on odd counts, which only holds for boards
// reached through alternating moves.
func (b Board) CurrentPlayer() Cell {
	if (Size*Size-b.Count(Empty))%2 == 0 {
		return X
	}
	return O
}

// LegalMoves returns every empty cell in row-major order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// IsTerminal returns true if the board is full or either side has won.
func (b Board) IsTerminal() bool {
	return b.IsFull() || b.IsWinner(X) || b.IsWinner(O)
}

// Utility scores a terminal board: +1 if X won, -1 if O won, 0 otherwise.
// Non-terminal boards score 0.
func (b Board) Utility() int {
	if b.IsWinner(X) {
		return 1
	}
	if b.IsWinner(O) {
		return -1
	}
	return 0
}

// IsValidMove returns true if m is inside the grid and targets an empty cell.
func (b Board) IsValidMove(m Move) bool {
	return m.InRange() && b.At(m) == Empty
}

// ApplyMove returns a copy of the board with m set to side.
// The receiver is left untouched, also when an error is returned.
func (b Board) ApplyMove(m Move, side Cell) (Board, error) {
	if side != X && side != O {
		return b, fmt.Errorf("%w: no side to place at %s", ErrIllegalMove, m)
	}
	if !m.InRange() {
		return b, fmt.Errorf("%w: %s is off the board", ErrIllegalMove, m)
	}
	if b.At(m) != Empty {
		return b, fmt.Errorf("%w: %s is taken by %s", ErrIllegalMove, m, b.At(m))
	}
	return b.Apply(m, side), nil
}

// Apply is ApplyMove without validation. m must come from LegalMoves.
func (b Board) Apply(m Move, side Cell) Board {
	b[m.Row][m.Col] = side
	return b
}

// String renders the board as three rows of "X", "O" and ".".
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < Size; col++ {
			switch b[row][col] {
			case X:
				sb.WriteByte('X')
			case O:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Parse reads a board from nine cell characters in row-major order.
// 'X' and 'O' (any case) are pieces, '.', '-' and '_' are empty; whitespace
// and '|' are ignored, so "XO.|.X.|..O" is accepted.
func Parse(s string) (Board, error) {
	var b Board
	i := 0
	for _, r := range s {
		var c Cell
		switch r {
		case ' ', '\t', '\n', '\r', '|':
			continue
		case 'X', 'x':
			c = X
		case 'O', 'o':
			c = O
		case '.', '-', '_':
			c = Empty
		default:
			return Board{}, fmt.Errorf("invalid cell %q", r)
		}
		if i >= Size*Size {
			return Board{}, fmt.Errorf("too many cells in %q", s)
		}
		b[i/Size][i%Size] = c
		i++
	}
	if i != Size*Size {
		return Board{}, fmt.Errorf("expected %d cells, got %d", Size*Size, i)
	}
	return b, nil
}
