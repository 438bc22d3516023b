package movegen

import (
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/piece"
)

func collides(b *board.GameBoard, s piece.Shape, top, left int) bool {
	for r := 0; r < s.Rows(); r++ {
		for c := 0; c < s.Cols(); c++ {
			if s.At(r, c) && b.Filled(top+r, left+c) {
				return true
			}
		}
	}
	return false
}

// RestingRow returns the top row the shape settles at when dropped straight
// down at column offset. ok is false if the shape does not fit in the
// columns or collides at the very top.
func RestingRow(b *board.GameBoard, s piece.Shape, offset int) (int, bool) {
	if offset < 0 || offset+s.Cols() > b.Cols() || s.Rows() > b.Rows() {
		return 0, false
	}
	top := b.Rows() - s.Rows()
	for y := 0; y <= b.Rows()-s.Rows(); y++ {
		if collides(b, s, y, offset) {
			top = y - 1
			break
		}
	}
	if top < 0 {
		return 0, false
	}
	return top, true
}

// Drop returns a copy of b with the shape settled at column offset. The
// input board is not modified.
func Drop(b *board.GameBoard, s piece.Shape, offset int) (*board.GameBoard, bool) {
	top, ok := RestingRow(b, s, offset)
	if !ok {
		return nil, false
	}
	out := b.Copy()
	for _, c := range s.Cells() {
		out.Set(top+c.Row, offset+c.Col, true)
	}
	return out, true
}
