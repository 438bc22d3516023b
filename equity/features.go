package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/dropbot/board"
)

// Features are the board statistics the evaluator scores.
type Features struct {
	Heights         []int
	AggregateHeight int
	CompleteLines   int
	Holes           int
	Bumpiness       int
}

// ColumnHeights returns, for each column, rows minus the index of the
// topmost filled cell, or 0 for an empty column.
func ColumnHeights(b *board.GameBoard) []int {
	heights := make([]int, b.Cols())
	for c := 0; c < b.Cols(); c++ {
		for r := 0; r < b.Rows(); r++ {
			if b.Filled(r, c) {
				heights[c] = b.Rows() - r
				break
			}
		}
	}
	return heights
}

// CompleteLines counts full rows. Nothing is removed.
func CompleteLines(b *board.GameBoard) int {
	ct := 0
	for r := 0; r < b.Rows(); r++ {
		if b.RowFull(r) {
			ct++
		}
	}
	return ct
}

// Holes counts empty cells that have a filled cell somewhere above them in
// the same column.
func Holes(b *board.GameBoard) int {
	holes := 0
	for c := 0; c < b.Cols(); c++ {
		seen := false
		for r := 0; r < b.Rows(); r++ {
			if b.Filled(r, c) {
				seen = true
			} else if seen {
				holes++
			}
		}
	}
	return holes
}

// Bumpiness is the sum of absolute height differences of adjacent columns.
func Bumpiness(heights []int) int {
	bump := 0
	for i := 0; i+1 < len(heights); i++ {
		d := heights[i] - heights[i+1]
		if d < 0 {
			d = -d
		}
		bump += d
	}
	return bump
}

// ComputeFeatures extracts every feature of b.
func ComputeFeatures(b *board.GameBoard) Features {
	heights := ColumnHeights(b)
	return Features{
		Heights:         heights,
		AggregateHeight: lo.Sum(heights),
		CompleteLines:   CompleteLines(b),
		Holes:           Holes(b),
		Bumpiness:       Bumpiness(heights),
	}
}
