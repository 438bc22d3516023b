package movegen

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/equity"
	"github.com/domino14/dropbot/piece"
	"github.com/domino14/dropbot/stats"
)

var fallingO = []board.Coord{{2, 8}, {2, 9}, {3, 8}, {3, 9}}

func staticReference() *board.GameBoard {
	return board.MustParse(board.ReferenceStack).WithCleared(fallingO)
}

func TestDropEmptyBoard(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	b := board.MakeBoard(20, 10)
	out, ok := Drop(b, cat.Variants(piece.I)[1], 4)
	is.True(ok)
	for r := 16; r < 20; r++ {
		is.True(out.Filled(r, 4))
	}
	is.Equal(b.NumFilled(), 0)
}

func TestDropLandsOnStack(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	b := staticReference()
	// Column 9 is filled from row 14 down, so the O rests at rows 12-13.
	top, ok := RestingRow(b, cat.Variants(piece.O)[0], 8)
	is.True(ok)
	is.Equal(top, 12)
}

func TestDropOutOfBounds(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	b := board.MakeBoard(20, 10)
	_, ok := Drop(b, cat.Variants(piece.I)[0], 7)
	is.True(!ok)
	_, ok = Drop(b, cat.Variants(piece.I)[0], -1)
	is.True(!ok)
}

func TestDropNoRoom(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	b := board.MakeBoard(20, 10)
	b.Set(0, 0, true)
	_, ok := Drop(b, cat.Variants(piece.O)[0], 0)
	is.True(!ok)
}

func TestDropDeterministicAndConserving(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	b := staticReference()
	static := b.NumFilled()
	for _, pt := range piece.AllTypes {
		for _, v := range cat.Variants(pt) {
			for off := 0; off+v.Cols() <= b.Cols(); off++ {
				first, ok1 := Drop(b, v, off)
				second, ok2 := Drop(b, v, off)
				is.Equal(ok1, ok2)
				if !ok1 {
					continue
				}
				is.True(first.Equals(second))
				is.Equal(first.NumFilled(), static+4)
			}
		}
	}
	is.Equal(b.NumFilled(), static)
}

func TestBestReferenceTie(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	b := staticReference()

	plays := gen.GenAll(b, cat.Variants(piece.O))
	is.Equal(len(plays), 9)
	// Offsets 3 and 5 score the same; the lower one wins.
	is.True(stats.FuzzyEqual(plays[3].Score, plays[5].Score))
	is.True(stats.FuzzyEqual(plays[3].Score, -15.328451))

	best, err := gen.Best(b, cat.Variants(piece.O))
	is.NoErr(err)
	is.Equal(best.Rotation, 0)
	is.Equal(best.Offset, 3)
}

func TestBestPrefersLowestRotationThenOffset(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	// A flat I at either wall scores the same.
	best, err := gen.Best(board.MakeBoard(20, 10), cat.Variants(piece.I))
	is.NoErr(err)
	is.Equal(best.Rotation, 0)
	is.Equal(best.Offset, 0)
}

func TestBestPrefersClearingLines(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	b, err := board.FromPlaintext(`
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
1 1 1 1 1 1 1 1 1 0
1 1 1 1 1 1 1 1 1 0
1 1 1 1 1 1 1 1 1 0
1 1 1 1 1 1 1 1 1 0
`)
	is.NoErr(err)
	best, err := gen.Best(b, cat.Variants(piece.I))
	is.NoErr(err)
	is.Equal(best.Rotation, 1)
	is.Equal(best.Offset, 9)
	is.Equal(best.Features.CompleteLines, 4)
}

func TestNoValidPlacement(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	b := board.MakeBoard(3, 10)
	for c := 0; c < 10; c++ {
		b.Set(0, c, true)
	}
	_, err := gen.Best(b, cat.Variants(piece.T))
	is.True(errors.Is(err, ErrNoValidPlacement))
}

func TestTopPlays(t *testing.T) {
	is := is.New(t)
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	plays := gen.GenAll(staticReference(), cat.Variants(piece.O))
	top := TopPlays(plays, 3)
	is.Equal(len(top), 3)
	is.Equal(top[0].Offset, 3)
	is.Equal(top[1].Offset, 5)
	is.True(top[1].Score >= top[2].Score)
	is.Equal(len(TopPlays(plays, 0)), len(plays))
}

func BenchmarkBest(b *testing.B) {
	cat := piece.StandardCatalog()
	gen := NewGenerator(equity.NewHeuristicCalculator(equity.DefaultWeights()))
	static := staticReference()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pt := range piece.AllTypes {
			gen.Best(static, cat.Variants(pt))
		}
	}
}
