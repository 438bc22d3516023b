package automatic

// Batches of self-play games, for comparing weight profiles without a
// screen attached.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/dropbot/ai/bot"
	"github.com/domino14/dropbot/stats"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("autoplayGames")
	IsPlaying = expvar.NewInt("autoplayIsPlaying")
}

var errAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// Options controls a batch of games.
type Options struct {
	Games     int
	Threads   int
	MaxPieces int
	Rows      int
	Cols      int
	// Seeds, if set, must have one entry per game.
	Seeds []Seed
	// LogFile receives one CSV line per piece when not empty.
	LogFile string
}

// PlayGames plays a batch of games concurrently and returns the results
// in game order.
func PlayGames(ctx context.Context, d *bot.Decider, opts Options) ([]GameResult, error) {
	if IsPlaying.Value() > 0 {
		return nil, errAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	seeds := opts.Seeds
	if seeds == nil {
		var err error
		if seeds, err = GenerateSeeds(opts.Games); err != nil {
			return nil, err
		}
	}
	if len(seeds) != opts.Games {
		return nil, fmt.Errorf("have %d seeds for %d games", len(seeds), opts.Games)
	}
	threads := max(opts.Threads, 1)
	log.Debug().Int("games", opts.Games).Int("threads", threads).Msg("starting-autoplay")

	var logChan chan string
	var logDone sync.WaitGroup
	if opts.LogFile != "" {
		logfile, err := os.Create(opts.LogFile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		logDone.Add(1)
		go func() {
			defer logDone.Done()
			defer logfile.Close()
			io.WriteString(logfile, "seed,piece,type,actions,cleared,totallines\n")
			for msg := range logChan {
				io.WriteString(logfile, msg)
			}
		}()
	}

	results := make([]GameResult, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := NewGameRunner(d, opts.Rows, opts.Cols, seeds[i], logChan)
			res, err := r.Play(opts.MaxPieces)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			GamesCounter.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if logChan != nil {
		close(logChan)
		logDone.Wait()
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates a batch of games.
type Summary struct {
	Games    int
	TopOuts  int
	Tetrises int
	Pieces   stats.Statistic
	Lines    stats.Statistic
	lines    []float64
}

func Summarize(results []GameResult) *Summary {
	s := &Summary{Games: len(results)}
	for _, r := range results {
		if r.TopOut {
			s.TopOuts++
		}
		s.Tetrises += r.Tetrises
		s.Pieces.Push(float64(r.Pieces))
		s.Lines.Push(float64(r.Lines))
		s.lines = append(s.lines, float64(r.Lines))
	}
	return s
}

// Histogram draws the lines-per-game distribution.
func (s *Summary) Histogram(w io.Writer, bins, width int) error {
	if len(s.lines) == 0 || s.Lines.Min() == s.Lines.Max() {
		_, err := fmt.Fprintf(w, "all games: %.0f lines\n", s.Lines.Mean())
		return err
	}
	return histogram.Fprint(w, histogram.Hist(bins, s.lines), histogram.Linear(width))
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d (top-outs: %d, tetrises: %d)\n", s.Games, s.TopOuts, s.Tetrises)
	fmt.Fprintf(&sb, "Pieces per game: %.2f ± %.2f (min %.0f, max %.0f)\n",
		s.Pieces.Mean(), s.Pieces.ConfidenceInterval(95), s.Pieces.Min(), s.Pieces.Max())
	fmt.Fprintf(&sb, "Lines per game:  %.2f ± %.2f (min %.0f, max %.0f)\n",
		s.Lines.Mean(), s.Lines.ConfidenceInterval(95), s.Lines.Min(), s.Lines.Max())
	if len(s.lines) > 1 {
		sb.WriteString("\nLines per game:\n")
		s.Histogram(&sb, 10, 40)
	}
	return sb.String()
}
