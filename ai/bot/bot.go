// Package bot is the decision pipeline: find the falling piece, search
// every placement, and encode the best one as inputs.
package bot

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
	"github.com/domino14/dropbot/equity"
	"github.com/domino14/dropbot/isolator"
	"github.com/domino14/dropbot/move"
	"github.com/domino14/dropbot/movegen"
	"github.com/domino14/dropbot/piece"
)

type BotConfig struct {
	config.Config
	Rows int
	Cols int
}

// NewBotConfig reads the board dimensions from cfg.
func NewBotConfig(cfg *config.Config) *BotConfig {
	return &BotConfig{
		Config: *cfg,
		Rows:   cfg.GetInt(config.ConfigBoardRows),
		Cols:   cfg.GetInt(config.ConfigBoardCols),
	}
}

// Decision records everything the pipeline worked out for one board.
type Decision struct {
	Piece     isolator.Identified
	Best      movegen.Placement
	Actions   []move.Action
	NumPlays  int
	Evaluator string
}

func (d *Decision) String() string {
	return fmt.Sprintf("%v -> %v (%d candidates)", d.Piece, d.Best, d.NumPlays)
}

// Decider turns a captured board into inputs. It is immutable after
// construction and safe for concurrent use.
type Decider struct {
	cfg     *BotConfig
	catalog *piece.Catalog
	calc    equity.FeatureEvaluator
	gen     *movegen.Generator
}

func NewDecider(cfg *BotConfig, cat *piece.Catalog, calc equity.FeatureEvaluator) *Decider {
	return &Decider{
		cfg:     cfg,
		catalog: cat,
		calc:    calc,
		gen:     movegen.NewGenerator(calc),
	}
}

// NewDeciderFromConfig builds a decider with the standard catalog and the
// configured weights.
func NewDeciderFromConfig(cfg *config.Config) (*Decider, error) {
	calc, err := equity.NewCalculatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("weights", calc.Weights().String()).Msg("decider-weights")
	return NewDecider(NewBotConfig(cfg), piece.StandardCatalog(), calc), nil
}

func (d *Decider) Catalog() *piece.Catalog {
	return d.catalog
}

func (d *Decider) Evaluator() equity.FeatureEvaluator {
	return d.calc
}

func (d *Decider) Generator() *movegen.Generator {
	return d.gen
}

// CheckDimensions fails with board.ErrMalformed when b does not have the
// configured size. A zero configured dimension accepts any size.
func (d *Decider) CheckDimensions(b *board.GameBoard) error {
	if (d.cfg.Rows > 0 && b.Rows() != d.cfg.Rows) || (d.cfg.Cols > 0 && b.Cols() != d.cfg.Cols) {
		return fmt.Errorf("%w: board is %dx%d, expected %dx%d",
			board.ErrMalformed, b.Rows(), b.Cols(), d.cfg.Rows, d.cfg.Cols)
	}
	return nil
}

// DecideBestMove finds the falling piece on b, clears it from the board,
// and returns the inputs that drop it in the best place. b is not
// modified. The errors isolator.ErrNoPiece, isolator.ErrUnknownShape and
// movegen.ErrNoValidPlacement mean there is nothing to do this cycle.
func (d *Decider) DecideBestMove(b *board.GameBoard) ([]move.Action, *Decision, error) {
	if err := d.CheckDimensions(b); err != nil {
		return nil, nil, err
	}
	id, err := isolator.Find(d.catalog, b)
	if err != nil {
		switch {
		case errors.Is(err, isolator.ErrUnknownShape):
			log.Warn().Err(err).Msg("unknown-shape")
		case errors.Is(err, isolator.ErrNoPiece):
			log.Debug().Msg("no-piece")
		}
		return nil, nil, err
	}

	static := b.WithCleared(id.Cells)
	variants := d.catalog.Variants(id.Type)
	plays := d.gen.GenAll(static, variants)
	best, err := movegen.BestOf(plays)
	if err != nil {
		log.Error().Err(err).Str("piece", id.String()).Msg("no-valid-placement")
		return nil, nil, err
	}
	actions := move.Encode(id.Rotation, id.Anchor, best.Rotation, best.Offset, len(variants))

	log.Debug().Str("piece", id.Type.String()).
		Int("rotation", best.Rotation).
		Int("offset", best.Offset).
		Float64("score", best.Score).
		Strs("actions", move.Strings(actions)).
		Msg("decided")

	return actions, &Decision{
		Piece:     id,
		Best:      best,
		Actions:   actions,
		NumPlays:  len(plays),
		Evaluator: d.calc.Type(),
	}, nil
}
