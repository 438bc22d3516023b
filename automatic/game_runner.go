// Package automatic plays simulated games with no screen attached: pieces
// come from a seeded bag, the decider picks every move, and full lines are
// cleared the way the game would clear them.
package automatic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/isolator"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/movegen"
	"github.com/domino14/dropbot/piece"
)

var errBadActions = errors.New("actions do not end in a commit")

// GameResult summarizes one finished game.
type GameResult struct {
	Seed   Seed
	Pieces int
	Lines  int
	// Tetrises counts drops that cleared four lines at once.
	Tetrises int
	TopOut   bool
	Final    *board.GameBoard
}

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	decider *bot.Decider
	rows    int
	cols    int
	bag     *Bag
	board   *board.GameBoard
	result  GameResult
	logchan chan<- string
}

// NewGameRunner sets up an empty board. logchan, if not nil, receives one
// CSV line per piece.
func NewGameRunner(d *bot.Decider, rows, cols int, seed Seed, logchan chan<- string) *GameRunner {
	return &GameRunner{
		decider: d,
		rows:    rows,
		cols:    cols,
		bag:     NewBag(seed),
		board:   board.MakeBoard(rows, cols),
		result:  GameResult{Seed: seed},
		logchan: logchan,
	}
}

func (r *GameRunner) Board() *board.GameBoard {
	return r.board
}

// Spawn places a piece of type pt in its first rotation at the top centre
// of the board. ok is false when the spawn area is blocked.
func Spawn(b *board.GameBoard, cat *piece.Catalog, pt piece.PieceType) (withPiece *board.GameBoard, anchor int, ok bool) {
	shape := cat.Variants(pt)[0]
	anchor = (b.Cols() - shape.Cols()) / 2
	withPiece = b.Copy()
	for _, c := range shape.Cells() {
		if withPiece.Filled(c.Row, anchor+c.Col) {
			return nil, 0, false
		}
		withPiece.Set(c.Row, anchor+c.Col, true)
	}
	return withPiece, anchor, true
}

// Apply performs actions on a piece of type pt that starts in rotation 0
// at column anchor over the static board b, and returns the board after
// the commit.
func Apply(b *board.GameBoard, cat *piece.Catalog, pt piece.PieceType, anchor int,
	actions []move.Action) (*board.GameBoard, error) {

	variants := cat.Variants(pt)
	rot, col := 0, anchor
	for _, a := range actions {
		switch a {
		case move.Rotate:
			rot = (rot + 1) % len(variants)
		case move.ShiftLeft:
			col--
		case move.ShiftRight:
			col++
		case move.Commit:
			out, ok := movegen.Drop(b, variants[rot], col)
			if !ok {
				return nil, fmt.Errorf("%w: %v rot=%d col=%d", movegen.ErrNoValidPlacement, pt, rot, col)
			}
			return out, nil
		}
	}
	return nil, errBadActions
}

// PlayPiece deals one piece and plays it. It returns false when the game
// is over.
func (r *GameRunner) PlayPiece() (bool, error) {
	cat := r.decider.Catalog()
	pt := r.bag.Next()
	withPiece, anchor, ok := Spawn(r.board, cat, pt)
	if !ok {
		r.result.TopOut = true
		return false, nil
	}
	actions, dec, err := r.decider.DecideBestMove(withPiece)
	switch {
	case errors.Is(err, movegen.ErrNoValidPlacement),
		errors.Is(err, isolator.ErrNoPiece),
		errors.Is(err, isolator.ErrUnknownShape):
		// The stack has grown into the spawn area.
		r.result.TopOut = true
		return false, nil
	case err != nil:
		return false, err
	case dec.Piece.Type != pt || dec.Piece.Anchor != anchor:
		r.result.TopOut = true
		return false, nil
	}
	next, err := Apply(r.board, cat, pt, anchor, actions)
	if err != nil {
		return false, err
	}
	cleared := next.ClearLines()
	r.board = next
	r.result.Pieces++
	r.result.Lines += cleared
	if cleared == 4 {
		r.result.Tetrises++
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%s,%d,%v,%s,%d,%d\n", r.result.Seed, r.result.Pieces, pt,
			strings.Join(move.Strings(actions), " "), cleared, r.result.Lines)
	}
	return true, nil
}

// Play runs the game until it tops out or maxPieces pieces have been
// played. maxPieces <= 0 means no limit.
func (r *GameRunner) Play(maxPieces int) (GameResult, error) {
	for maxPieces <= 0 || r.result.Pieces < maxPieces {
		more, err := r.PlayPiece()
		if err != nil {
			return r.result, err
		}
		if !more {
			break
		}
	}
	r.result.Final = r.board
	log.Debug().Str("seed", r.result.Seed.String()).
		Int("pieces", r.result.Pieces).
		Int("lines", r.result.Lines).
		Bool("top-out", r.result.TopOut).
		Msg("game-over")
	return r.result, nil
}
