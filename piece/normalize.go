package piece

import (
	"errors"

	"github.com/domino14/dropbot/board"
)

var errNoCells = errors.New("no cells to build a shape from")

// Normalize translates coordinates so that the minimum row and minimum
// column are both zero. Order is preserved.
func Normalize(coords []board.Coord) []board.Coord {
	if len(coords) == 0 {
		return nil
	}
	minR, minC := bounds(coords)
	out := make([]board.Coord, len(coords))
	for i, c := range coords {
		out[i] = board.Coord{Row: c.Row - minR, Col: c.Col - minC}
	}
	return out
}

// MinCol is the leftmost column of the coordinates.
func MinCol(coords []board.Coord) int {
	_, minC := bounds(coords)
	return minC
}

// MinRow is the topmost row of the coordinates.
func MinRow(coords []board.Coord) int {
	minR, _ := bounds(coords)
	return minR
}

func bounds(coords []board.Coord) (minR, minC int) {
	minR, minC = coords[0].Row, coords[0].Col
	for _, c := range coords[1:] {
		minR = min(minR, c.Row)
		minC = min(minC, c.Col)
	}
	return minR, minC
}

// ShapeFromCoords builds the tight bounding matrix of a set of cells.
func ShapeFromCoords(coords []board.Coord) (Shape, error) {
	if len(coords) == 0 {
		return Shape{}, errNoCells
	}
	norm := Normalize(coords)
	maxR, maxC := 0, 0
	for _, c := range norm {
		maxR = max(maxR, c.Row)
		maxC = max(maxC, c.Col)
	}
	rows := make([][]int, maxR+1)
	for r := range rows {
		rows[r] = make([]int, maxC+1)
	}
	for _, c := range norm {
		rows[c.Row][c.Col] = 1
	}
	return NewShape(rows), nil
}
