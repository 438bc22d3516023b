// Package isolator finds the falling piece on a captured board and works out
// which tetromino it is.
package isolator

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/piece"
)

var (
	// ErrNoPiece means no connected group of exactly four cells was found.
	ErrNoPiece = errors.New("no falling piece detected")
	// ErrUnknownShape means a four-cell group was found but it is not any
	// tetromino in the catalog.
	ErrUnknownShape = errors.New("unknown piece shape")
)

const pieceSize = 4

var neighbors = [4]board.Coord{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// Components returns every 4-connected group of filled cells, in the order
// they are discovered by a row-major scan. Cells within a component are in
// breadth-first order.
func Components(b *board.GameBoard) [][]board.Coord {
	visited := make([]bool, b.Rows()*b.Cols())
	var comps [][]board.Coord
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if !b.Filled(r, c) || visited[r*b.Cols()+c] {
				continue
			}
			visited[r*b.Cols()+c] = true
			queue := []board.Coord{{Row: r, Col: c}}
			var comp []board.Coord
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				comp = append(comp, cur)
				for _, d := range neighbors {
					nr, nc := cur.Row+d.Row, cur.Col+d.Col
					if !b.InBounds(nr, nc) || visited[nr*b.Cols()+nc] || !b.Filled(nr, nc) {
						continue
					}
					visited[nr*b.Cols()+nc] = true
					queue = append(queue, board.Coord{Row: nr, Col: nc})
				}
			}
			comps = append(comps, comp)
		}
	}
	return comps
}

// FallingPiece is the component chosen as the active piece.
type FallingPiece struct {
	Cells []board.Coord
	// Board has only the piece's cells filled.
	Board *board.GameBoard
}

// Isolate picks the falling piece: among components of exactly four cells,
// the one highest on the board. Ties keep the first one found. ok is false
// when there is no four-cell component.
func Isolate(b *board.GameBoard) (FallingPiece, bool) {
	var best []board.Coord
	bestRow := 0
	for _, comp := range Components(b) {
		if len(comp) != pieceSize {
			continue
		}
		if mr := piece.MinRow(comp); best == nil || mr < bestRow {
			best, bestRow = comp, mr
		}
	}
	if best == nil {
		return FallingPiece{}, false
	}
	return FallingPiece{Cells: best, Board: b.WithOnly(best)}, true
}

// Identified describes a recognized falling piece.
type Identified struct {
	Type     piece.PieceType
	Rotation int
	// Anchor is the piece's leftmost column on the board.
	Anchor int
	Cells  []board.Coord
}

func (id Identified) String() string {
	return fmt.Sprintf("%v rot=%d anchor=%d", id.Type, id.Rotation, id.Anchor)
}

// Identify matches a piece's cells against the catalog.
func Identify(cat *piece.Catalog, cells []board.Coord) (Identified, error) {
	shape, err := piece.ShapeFromCoords(cells)
	if err != nil {
		return Identified{}, fmt.Errorf("%w: %v", ErrUnknownShape, err)
	}
	pt, rot, ok := cat.Match(shape)
	if !ok {
		return Identified{}, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
	}
	id := Identified{Type: pt, Rotation: rot, Anchor: piece.MinCol(cells), Cells: cells}
	log.Debug().Str("piece", pt.String()).Int("rotation", rot).Int("anchor", id.Anchor).
		Msg("piece-identified")
	return id, nil
}

// Find isolates and identifies the falling piece in one step.
func Find(cat *piece.Catalog, b *board.GameBoard) (Identified, error) {
	fp, ok := Isolate(b)
	if !ok {
		return Identified{}, ErrNoPiece
	}
	return Identify(cat, fp.Cells)
}
