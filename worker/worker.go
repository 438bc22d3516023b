package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/stats"
)

// Worker runs the capture, decide and execute loop at a fixed cadence.
type Worker struct {
	config   *WorkerConfig
	source   BoardSource
	sink     ActionSink
	decider  *bot.Decider
	recorder Recorder

	mu       sync.Mutex
	outcomes map[Outcome]int
	latency  stats.Statistic
}

// NewWorker creates a new worker. recorder may be nil.
func NewWorker(cfg *WorkerConfig, decider *bot.Decider, source BoardSource,
	sink ActionSink, recorder Recorder) *Worker {

	return &Worker{
		config:   cfg,
		source:   source,
		sink:     sink,
		decider:  decider,
		recorder: recorder,
		outcomes: make(map[Outcome]int),
	}
}

// Run starts the worker main loop. It returns nil after MaxCycles cycles,
// the context error when cancelled, or the first fatal cycle error.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().
		Dur("poll-interval", w.config.PollInterval).
		Int("max-cycles", w.config.MaxCycles).
		Msg("starting-worker")

	pollTicker := time.NewTicker(w.config.PollInterval)
	defer pollTicker.Stop()

	cycle := Cycle{Number: 0, First: true}
	for {
		if err := w.RunCycle(ctx, cycle); err != nil {
			log.Error().Err(err).Int("cycle", cycle.Number).Msg("worker-stopping")
			return err
		}
		cycle = Cycle{Number: cycle.Number + 1}
		if w.config.SummaryEvery > 0 && cycle.Number%w.config.SummaryEvery == 0 {
			w.logSummary()
		}
		if w.config.MaxCycles > 0 && cycle.Number >= w.config.MaxCycles {
			w.logSummary()
			return nil
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			w.logSummary()
			return ctx.Err()
		case <-pollTicker.C:
		}
	}
}

// RunCycle performs one pass. Cycles with nothing to do return nil; the
// returned error is always fatal to the loop.
func (w *Worker) RunCycle(ctx context.Context, c Cycle) error {
	b, err := w.source.Capture(ctx, c)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	start := time.Now()
	actions, decision, err := w.decider.DecideBestMove(b)
	elapsed := time.Since(start)

	outcome, skip := ClassifyError(err)
	w.count(outcome, elapsed)
	w.record(ctx, Entry{
		Time:     start,
		Cycle:    c,
		Board:    b,
		Decision: decision,
		Outcome:  outcome,
		Latency:  elapsed,
	})

	if skip {
		log.Debug().Int("cycle", c.Number).Str("outcome", outcome.String()).Msg("skipping-cycle")
		return nil
	}
	if err != nil {
		return fmt.Errorf("decide: %w", err)
	}

	log.Debug().Int("cycle", c.Number).
		Strs("actions", move.Strings(actions)).
		Dur("latency", elapsed).
		Msg("executing")
	if err := w.sink.Execute(ctx, actions); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

func (w *Worker) record(ctx context.Context, e Entry) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.Record(ctx, e); err != nil {
		log.Warn().Err(err).Int("cycle", e.Cycle.Number).Msg("record-failed")
	}
}

func (w *Worker) count(o Outcome, elapsed time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outcomes[o]++
	if o == OutcomeDecided {
		w.latency.Push(float64(elapsed.Microseconds()) / 1000)
	}
}

// Summary is a snapshot of the worker's counters.
type Summary struct {
	Outcomes map[Outcome]int
	// LatencyMs covers decided cycles only.
	LatencyMs stats.Statistic
}

func (w *Worker) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[Outcome]int, len(w.outcomes))
	for k, v := range w.outcomes {
		out[k] = v
	}
	return Summary{Outcomes: out, LatencyMs: w.latency}
}

func (w *Worker) logSummary() {
	s := w.Summary()
	ev := log.Info()
	for _, o := range AllOutcomes {
		ev = ev.Int(o.String(), s.Outcomes[o])
	}
	ev.Float64("latency-mean-ms", s.LatencyMs.Mean()).
		Float64("latency-max-ms", s.LatencyMs.Max()).
		Msg("worker-summary")
}
