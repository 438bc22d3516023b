// Package board holds the binary occupancy grid that every other package
// works on. Row 0 is the top of the play field.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultRows = 20
	DefaultCols = 10
)

// ErrMalformed is returned when input cannot be turned into a rectangular
// grid of binary cells.
var ErrMalformed = errors.New("malformed board")

// A Coord is a (row, column) pair on a board.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// GameBoard is a fixed-size grid of filled/empty cells.
type GameBoard struct {
	rows  int
	cols  int
	cells []bool
}

// MakeBoard creates an empty board. Non-positive dimensions are a
// programming error.
func MakeBoard(rows, cols int) *GameBoard {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("invalid board dimensions %dx%d", rows, cols))
	}
	return &GameBoard{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

// FromRows builds a board from a slice of rows. All rows must have the same
// non-zero length.
func FromRows(rows [][]bool) (*GameBoard, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformed)
	}
	g := MakeBoard(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrMalformed, r, len(row), g.cols)
		}
		copy(g.cells[r*g.cols:(r+1)*g.cols], row)
	}
	return g, nil
}

// FromInts builds a board from rows of 0/1 values.
func FromInts(rows [][]int) (*GameBoard, error) {
	bools := make([][]bool, len(rows))
	for r, row := range rows {
		bools[r] = make([]bool, len(row))
		for c, v := range row {
			switch v {
			case 0:
			case 1:
				bools[r][c] = true
			default:
				return nil, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrMalformed, r, c, v)
			}
		}
	}
	return FromRows(bools)
}

func (g *GameBoard) Rows() int {
	return g.rows
}

func (g *GameBoard) Cols() int {
	return g.cols
}

func (g *GameBoard) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *GameBoard) Filled(row, col int) bool {
	return g.cells[row*g.cols+col]
}

func (g *GameBoard) Set(row, col int, filled bool) {
	g.cells[row*g.cols+col] = filled
}

// Copy returns a deep copy of the board.
func (g *GameBoard) Copy() *GameBoard {
	n := &GameBoard{rows: g.rows, cols: g.cols, cells: make([]bool, len(g.cells))}
	copy(n.cells, g.cells)
	return n
}

// Equals is true if both boards have the same dimensions and cells.
func (g *GameBoard) Equals(o *GameBoard) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// NumFilled counts the filled cells.
func (g *GameBoard) NumFilled() int {
	ct := 0
	for _, f := range g.cells {
		if f {
			ct++
		}
	}
	return ct
}

// RowFull is true if every cell in the row is filled.
func (g *GameBoard) RowFull(row int) bool {
	for c := 0; c < g.cols; c++ {
		if !g.Filled(row, c) {
			return false
		}
	}
	return true
}

// WithCleared returns a copy of the board with the given cells emptied.
func (g *GameBoard) WithCleared(coords []Coord) *GameBoard {
	n := g.Copy()
	for _, c := range coords {
		n.Set(c.Row, c.Col, false)
	}
	return n
}

// WithOnly returns an empty board of the same size with only the given
// cells filled.
func (g *GameBoard) WithOnly(coords []Coord) *GameBoard {
	n := MakeBoard(g.rows, g.cols)
	for _, c := range coords {
		n.Set(c.Row, c.Col, true)
	}
	return n
}

// ClearLines removes every full row, shifting the rows above it down, and
// returns how many rows were removed. The evaluator never calls this; only
// game simulation does.
func (g *GameBoard) ClearLines() int {
	cleared := 0
	dst := g.rows - 1
	for src := g.rows - 1; src >= 0; src-- {
		if g.RowFull(src) {
			cleared++
			continue
		}
		if dst != src {
			copy(g.cells[dst*g.cols:(dst+1)*g.cols], g.cells[src*g.cols:(src+1)*g.cols])
		}
		dst--
	}
	for r := dst; r >= 0; r-- {
		for c := 0; c < g.cols; c++ {
			g.Set(r, c, false)
		}
	}
	return cleared
}

// ToInts returns the board as rows of 0/1 values.
func (g *GameBoard) ToInts() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			if g.Filled(r, c) {
				out[r][c] = 1
			}
		}
	}
	return out
}

// String returns the plaintext form: one line per row, cells as space
// separated 0/1 values. FromPlaintext reads it back.
func (g *GameBoard) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if g.Filled(r, c) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
