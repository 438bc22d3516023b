package worker

import (
	"context"
	"errors"
	"time"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/isolator"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/movegen"
)

// Cycle identifies one capture-decide-execute pass. First is true only for
// the very first cycle of a run, when a source may need to set itself up.
type Cycle struct {
	Number int
	First  bool
}

// BoardSource produces the current board.
type BoardSource interface {
	Capture(ctx context.Context, c Cycle) (*board.GameBoard, error)
}

// ActionSink performs the inputs chosen for a cycle.
type ActionSink interface {
	Execute(ctx context.Context, actions []move.Action) error
}

// Outcome is how a cycle ended.
type Outcome uint8

const (
	OutcomeDecided Outcome = iota
	OutcomeNoPiece
	OutcomeUnknownShape
	OutcomeNoValidPlacement
	OutcomeFailed
)

var AllOutcomes = []Outcome{OutcomeDecided, OutcomeNoPiece, OutcomeUnknownShape,
	OutcomeNoValidPlacement, OutcomeFailed}

func (o Outcome) String() string {
	switch o {
	case OutcomeDecided:
		return "decided"
	case OutcomeNoPiece:
		return "no-piece"
	case OutcomeUnknownShape:
		return "unknown-shape"
	case OutcomeNoValidPlacement:
		return "no-valid-placement"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ClassifyError maps a decision error to an outcome. skip is true for the
// errors that just mean there is nothing to do this cycle.
func ClassifyError(err error) (o Outcome, skip bool) {
	switch {
	case err == nil:
		return OutcomeDecided, false
	case errors.Is(err, isolator.ErrNoPiece):
		return OutcomeNoPiece, true
	case errors.Is(err, isolator.ErrUnknownShape):
		return OutcomeUnknownShape, true
	case errors.Is(err, movegen.ErrNoValidPlacement):
		return OutcomeNoValidPlacement, true
	}
	return OutcomeFailed, false
}

// Entry is what a Recorder receives after each decision attempt.
type Entry struct {
	Time     time.Time
	Cycle    Cycle
	Board    *board.GameBoard
	Decision *bot.Decision
	Outcome  Outcome
	Latency  time.Duration
}

// Recorder stores cycle entries somewhere durable.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}
