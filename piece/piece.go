// Package piece contains the tetromino catalog: every piece type and the
// normalized shape of each of its distinct rotation states.
package piece

import (
	"fmt"
	"strings"

	"github.com/domino14/dropbot/board"
)

// PieceType is one of the seven tetrominoes.
type PieceType uint8

const (
	I PieceType = iota
	O
	T
	S
	Z
	J
	L

	numPieceTypes
)

// AllTypes is the catalog order. Matching tries types in this order.
var AllTypes = [numPieceTypes]PieceType{I, O, T, S, Z, J, L}

func (p PieceType) String() string {
	switch p {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case S:
		return "S"
	case Z:
		return "Z"
	case J:
		return "J"
	case L:
		return "L"
	}
	return "Unknown"
}

// ParseType converts a one-letter name into a PieceType.
func ParseType(s string) (PieceType, error) {
	for _, p := range AllTypes {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// Shape is a tight bounding matrix of one rotation state. It is immutable
// once built.
type Shape struct {
	rows  int
	cols  int
	cells []bool
}

// NewShape builds a shape from rows of 0/1 values. It panics on ragged or
// empty input, since shapes only come from static tables and coordinates.
func NewShape(rows [][]int) Shape {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("empty shape")
	}
	s := Shape{rows: len(rows), cols: len(rows[0]), cells: make([]bool, len(rows)*len(rows[0]))}
	for r, row := range rows {
		if len(row) != s.cols {
			panic(fmt.Sprintf("ragged shape row %d", r))
		}
		for c, v := range row {
			s.cells[r*s.cols+c] = v != 0
		}
	}
	return s
}

func (s Shape) Rows() int {
	return s.rows
}

func (s Shape) Cols() int {
	return s.cols
}

func (s Shape) At(row, col int) bool {
	return s.cells[row*s.cols+col]
}

// Cells returns the filled cells relative to the shape's top-left corner.
func (s Shape) Cells() []board.Coord {
	var out []board.Coord
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if s.At(r, c) {
				out = append(out, board.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Equals is exact structural equality.
func (s Shape) Equals(o Shape) bool {
	if s.rows != o.rows || s.cols != o.cols {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String draws the shape with # for filled cells, rows separated by /.
func (s Shape) String() string {
	var sb strings.Builder
	for r := 0; r < s.rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := 0; c < s.cols; c++ {
			if s.At(r, c) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
