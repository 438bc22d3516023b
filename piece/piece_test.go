package piece

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"

	"github.com/domino14/dropbot/board"
)

func TestCatalogRoundTrip(t *testing.T) {
	is := is.New(t)
	cat := StandardCatalog()
	for _, pt := range AllTypes {
		for idx, v := range cat.Variants(pt) {
			gotType, gotRot, ok := cat.Match(v)
			is.True(ok)
			is.Equal(gotType, pt)
			is.Equal(gotRot, idx)
		}
	}
}

func TestRotationCounts(t *testing.T) {
	is := is.New(t)
	cat := StandardCatalog()
	want := map[PieceType]int{I: 2, O: 1, T: 4, S: 2, Z: 2, J: 4, L: 4}
	for pt, n := range want {
		is.Equal(cat.NumRotations(pt), n)
	}
}

func TestEveryVariantHasFourCells(t *testing.T) {
	is := is.New(t)
	cat := StandardCatalog()
	for _, pt := range AllTypes {
		for _, v := range cat.Variants(pt) {
			is.Equal(len(v.Cells()), 4)
		}
	}
}

func TestMatchFailsOnUnknownShape(t *testing.T) {
	is := is.New(t)
	cat := StandardCatalog()
	_, _, ok := cat.Match(NewShape([][]int{{1, 1, 1}, {1, 0, 1}}))
	is.True(!ok)
	// A tetromino drawn with a spurious empty border is not tight.
	_, _, ok = cat.Match(NewShape([][]int{{1, 1, 0}, {1, 1, 0}}))
	is.True(!ok)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := [][]board.Coord{
		{{2, 8}, {2, 9}, {3, 8}, {3, 9}},
		{{18, 1}, {18, 2}, {19, 0}, {19, 1}},
		{{5, 4}},
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("Normalize not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestShapeFromCoords(t *testing.T) {
	is := is.New(t)
	cat := StandardCatalog()

	tests := []struct {
		desc     string
		coords   []board.Coord
		wantType PieceType
		wantRot  int
	}{
		{"O", []board.Coord{{2, 8}, {2, 9}, {3, 8}, {3, 9}}, O, 0},
		{"S flat", []board.Coord{{18, 1}, {18, 2}, {19, 0}, {19, 1}}, S, 0},
		{"vertical I", []board.Coord{{16, 0}, {17, 0}, {18, 0}, {19, 0}}, I, 1},
		{"T pointing left", []board.Coord{{4, 6}, {5, 5}, {5, 6}, {6, 6}}, T, 3},
		{"L upside down", []board.Coord{{0, 3}, {0, 4}, {0, 5}, {1, 3}}, L, 2},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			s, err := ShapeFromCoords(tc.coords)
			is.NoErr(err)
			pt, rot, ok := cat.Match(s)
			is.True(ok)
			is.Equal(pt, tc.wantType)
			is.Equal(rot, tc.wantRot)
		})
	}
	_, err := ShapeFromCoords(nil)
	is.True(err != nil)
}

func TestParseType(t *testing.T) {
	is := is.New(t)
	for _, pt := range AllTypes {
		got, err := ParseType(pt.String())
		is.NoErr(err)
		is.Equal(got, pt)
	}
	_, err := ParseType("X")
	is.True(err != nil)
}
