package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/move"
)

type scriptedSource struct {
	boards []*board.GameBoard
	cycles []Cycle
}

func (s *scriptedSource) Capture(ctx context.Context, c Cycle) (*board.GameBoard, error) {
	s.cycles = append(s.cycles, c)
	if len(s.boards) == 0 {
		return nil, errors.New("out of boards")
	}
	b := s.boards[0]
	s.boards = s.boards[1:]
	return b, nil
}

type collectingSink struct {
	got [][]move.Action
}

func (s *collectingSink) Execute(ctx context.Context, actions []move.Action) error {
	s.got = append(s.got, actions)
	return nil
}

type memRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *memRecorder) Record(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func newTestWorker(t *testing.T, src BoardSource, sink ActionSink, rec Recorder, maxCycles int) *Worker {
	cfg := config.DefaultConfig()
	d, err := bot.NewDeciderFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	wc := NewWorkerConfig(cfg)
	wc.PollInterval = time.Millisecond
	wc.MaxCycles = maxCycles
	return NewWorker(wc, d, src, sink, rec)
}

func TestRunSkipsEmptyCycles(t *testing.T) {
	is := is.New(t)
	src := &scriptedSource{boards: []*board.GameBoard{
		board.MakeBoard(20, 10),
		board.MustParse(board.ReferenceStack),
		board.MakeBoard(20, 10),
	}}
	sink := &collectingSink{}
	rec := &memRecorder{}
	w := newTestWorker(t, src, sink, rec, 3)

	is.NoErr(w.Run(context.Background()))
	is.Equal(len(sink.got), 1)
	is.Equal(move.ToText(sink.got[0]), "SHIFT_LEFT\nSHIFT_LEFT\nSHIFT_LEFT\nSHIFT_LEFT\nSHIFT_LEFT\nCOMMIT\n")

	is.Equal(src.cycles[0], Cycle{Number: 0, First: true})
	is.Equal(src.cycles[1], Cycle{Number: 1, First: false})
	is.Equal(src.cycles[2], Cycle{Number: 2, First: false})

	s := w.Summary()
	is.Equal(s.Outcomes[OutcomeNoPiece], 2)
	is.Equal(s.Outcomes[OutcomeDecided], 1)
	is.Equal(s.LatencyMs.Iterations(), 1)

	is.Equal(len(rec.entries), 3)
	is.Equal(rec.entries[1].Outcome, OutcomeDecided)
	is.True(rec.entries[1].Decision != nil)
	is.True(rec.entries[0].Decision == nil)
}

func TestMalformedBoardIsFatal(t *testing.T) {
	is := is.New(t)
	src := &scriptedSource{boards: []*board.GameBoard{board.MakeBoard(10, 10)}}
	sink := &collectingSink{}
	w := newTestWorker(t, src, sink, nil, 5)

	err := w.Run(context.Background())
	is.True(errors.Is(err, board.ErrMalformed))
	is.Equal(len(sink.got), 0)
	is.Equal(w.Summary().Outcomes[OutcomeFailed], 1)
}

func TestCaptureErrorIsFatal(t *testing.T) {
	is := is.New(t)
	w := newTestWorker(t, &scriptedSource{}, &collectingSink{}, nil, 0)
	is.True(w.Run(context.Background()) != nil)
}

type endlessSource struct{}

func (endlessSource) Capture(ctx context.Context, c Cycle) (*board.GameBoard, error) {
	return board.MakeBoard(20, 10), nil
}

func TestRunStopsOnCancel(t *testing.T) {
	is := is.New(t)
	w := newTestWorker(t, endlessSource{}, &collectingSink{}, nil, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Run(ctx)
	is.True(errors.Is(err, context.DeadlineExceeded))
	is.True(w.Summary().Outcomes[OutcomeNoPiece] > 0)
}

func TestWorkerConfigEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("DROPBOT_WORKER_POLL_INTERVAL", "1s")
	t.Setenv("DROPBOT_WORKER_MAX_CYCLES", "7")
	wc := DefaultWorkerConfig()
	is.Equal(wc.PollInterval, time.Second)
	is.Equal(wc.MaxCycles, 7)

	t.Setenv("DROPBOT_WORKER_POLL_INTERVAL", "soon")
	is.Equal(DefaultWorkerConfig().PollInterval, 200*time.Millisecond)
}
