package isolator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/matryer/is"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/piece"
)

func sortCoords(a, b board.Coord) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func TestComponentsReferenceStack(t *testing.T) {
	is := is.New(t)
	comps := Components(board.MustParse(board.ReferenceStack))
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	// O piece, right-hand stack, locked S piece.
	is.Equal(sizes, []int{4, 12, 4})
	total := 0
	for _, s := range sizes {
		total += s
	}
	is.Equal(total, 20)
}

func TestIsolateReferenceStack(t *testing.T) {
	is := is.New(t)
	fp, ok := Isolate(board.MustParse(board.ReferenceStack))
	is.True(ok)
	want := []board.Coord{{2, 8}, {2, 9}, {3, 8}, {3, 9}}
	if diff := cmp.Diff(want, fp.Cells, cmpopts.SortSlices(sortCoords)); diff != "" {
		t.Errorf("unexpected cells (-want +got):\n%s", diff)
	}
	is.Equal(fp.Board.NumFilled(), 4)
	is.True(fp.Board.Filled(3, 9))
}

func TestIsolatePicksHighestPiece(t *testing.T) {
	is := is.New(t)
	fp, ok := Isolate(board.MustParse(board.TwoPieces))
	is.True(ok)
	is.Equal(piece.MinRow(fp.Cells), 0)
	id, err := Identify(piece.StandardCatalog(), fp.Cells)
	is.NoErr(err)
	is.Equal(id.Type, piece.T)
	is.Equal(id.Rotation, 0)
	is.Equal(id.Anchor, 3)
}

func TestIsolateTieKeepsFirstFound(t *testing.T) {
	is := is.New(t)
	b, err := board.FromPlaintext(`
0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0
0 1 1 0 0 0 0 1 1 1
0 1 1 0 0 0 0 0 0 1
`)
	is.NoErr(err)
	fp, ok := Isolate(b)
	is.True(ok)
	is.Equal(piece.MinCol(fp.Cells), 1)
}

func TestIsolateNoPiece(t *testing.T) {
	is := is.New(t)
	_, ok := Isolate(board.MakeBoard(20, 10))
	is.True(!ok)

	// Five-cell and three-cell blobs are not pieces.
	b, err := board.FromPlaintext(`
1 1 1 0 0
0 0 0 0 0
1 1 1 1 1
`)
	is.NoErr(err)
	_, ok = Isolate(b)
	is.True(!ok)

	_, err = Find(piece.StandardCatalog(), b)
	is.True(errors.Is(err, ErrNoPiece))
}

func TestIdentifyUnknownShape(t *testing.T) {
	is := is.New(t)
	// Four cells, but diagonal neighbours are not connected, so build the
	// cell list by hand.
	cells := []board.Coord{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	_, err := Identify(piece.StandardCatalog(), cells)
	is.True(errors.Is(err, ErrUnknownShape))
}

func TestFindReferenceStack(t *testing.T) {
	is := is.New(t)
	id, err := Find(piece.StandardCatalog(), board.MustParse(board.ReferenceStack))
	is.NoErr(err)
	is.Equal(id.Type, piece.O)
	is.Equal(id.Rotation, 0)
	is.Equal(id.Anchor, 8)
}
