// Package movegen enumerates every placement of a piece and ranks them with
// an evaluator.
package movegen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/equity"
	"github.com/domino14/dropbot/piece"
)

// ErrNoValidPlacement means no rotation and offset could be dropped onto
// the board.
var ErrNoValidPlacement = errors.New("no valid placement")

// Placement is one candidate final position of the piece.
type Placement struct {
	Rotation int
	Offset   int
	Score    float64
	Features equity.Features
	// Result is the board after the drop, before any line clears.
	Result *board.GameBoard
}

func (p Placement) String() string {
	return fmt.Sprintf("rot=%d offset=%d score=%.6f lines=%d holes=%d height=%d bump=%d",
		p.Rotation, p.Offset, p.Score, p.Features.CompleteLines, p.Features.Holes,
		p.Features.AggregateHeight, p.Features.Bumpiness)
}

// Generator searches placements. It holds no per-search state, so one
// Generator can serve any number of goroutines.
type Generator struct {
	calc equity.FeatureEvaluator
}

func NewGenerator(calc equity.FeatureEvaluator) *Generator {
	return &Generator{calc: calc}
}

// GenAll returns every valid placement, ordered by rotation index and then
// by offset. The board must not contain the falling piece.
func (g *Generator) GenAll(b *board.GameBoard, variants []piece.Shape) []Placement {
	var plays []Placement
	for rot, shape := range variants {
		for offset := 0; offset+shape.Cols() <= b.Cols(); offset++ {
			result, ok := Drop(b, shape, offset)
			if !ok {
				continue
			}
			f := equity.ComputeFeatures(result)
			plays = append(plays, Placement{
				Rotation: rot,
				Offset:   offset,
				Score:    g.calc.Score(f),
				Features: f,
				Result:   result,
			})
		}
	}
	return plays
}

// Best returns the highest scoring placement. Only a strictly greater
// score replaces the current best, so ties go to the lowest rotation and
// then the lowest offset.
func (g *Generator) Best(b *board.GameBoard, variants []piece.Shape) (Placement, error) {
	return BestOf(g.GenAll(b, variants))
}

// BestOf picks the winner from plays in generation order.
func BestOf(plays []Placement) (Placement, error) {
	if len(plays) == 0 {
		return Placement{}, ErrNoValidPlacement
	}
	best := plays[0]
	for _, p := range plays[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	log.Debug().Int("candidates", len(plays)).Str("best", best.String()).Msg("search-done")
	return best, nil
}

// TopPlays returns up to n placements, best first. Equal scores keep
// generation order.
func TopPlays(plays []Placement, n int) []Placement {
	sorted := slices.Clone(plays)
	slices.SortStableFunc(sorted, func(a, b Placement) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if n <= 0 || n > len(sorted) {
		n = len(sorted)
	}
	return lo.Slice(sorted, 0, n)
}
