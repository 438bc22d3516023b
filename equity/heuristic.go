package equity

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/dropbot/board"
	"github.com/domino14/dropbot/config"
)

const HeuristicCalculatorType = "heuristic"

// Weights are the linear coefficients of the heuristic.
type Weights struct {
	AggregateHeight float64 `yaml:"aggregate_height"`
	CompleteLines   float64 `yaml:"complete_lines"`
	Holes           float64 `yaml:"holes"`
	Bumpiness       float64 `yaml:"bumpiness"`
}

// DefaultWeights are the well-known tuned weights for the four features.
func DefaultWeights() Weights {
	return Weights{
		AggregateHeight: -0.510066,
		CompleteLines:   0.760666,
		Holes:           -0.35663,
		Bumpiness:       -0.184483,
	}
}

// WeightsFromConfig reads the four weight settings.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		AggregateHeight: cfg.GetFloat64(config.ConfigWeightAggregateHeight),
		CompleteLines:   cfg.GetFloat64(config.ConfigWeightCompleteLines),
		Holes:           cfg.GetFloat64(config.ConfigWeightHoles),
		Bumpiness:       cfg.GetFloat64(config.ConfigWeightBumpiness),
	}
}

func (w Weights) String() string {
	return fmt.Sprintf("aggregate-height=%v complete-lines=%v holes=%v bumpiness=%v",
		w.AggregateHeight, w.CompleteLines, w.Holes, w.Bumpiness)
}

// Set changes a single weight by its name.
func (w *Weights) Set(name string, val float64) error {
	switch name {
	case "aggregate_height", "aggregate-height", "height":
		w.AggregateHeight = val
	case "complete_lines", "complete-lines", "lines":
		w.CompleteLines = val
	case "holes":
		w.Holes = val
	case "bumpiness":
		w.Bumpiness = val
	default:
		return fmt.Errorf("unknown weight %q", name)
	}
	return nil
}

// HeuristicCalculator is the linear board evaluator.
type HeuristicCalculator struct {
	weights Weights
}

func NewHeuristicCalculator(w Weights) *HeuristicCalculator {
	return &HeuristicCalculator{weights: w}
}

func (h *HeuristicCalculator) Weights() Weights {
	return h.weights
}

func (h *HeuristicCalculator) Type() string {
	return HeuristicCalculatorType
}

func (h *HeuristicCalculator) Score(f Features) float64 {
	terms := []float64{
		h.weights.AggregateHeight * float64(f.AggregateHeight),
		h.weights.CompleteLines * float64(f.CompleteLines),
		h.weights.Holes * float64(f.Holes),
		h.weights.Bumpiness * float64(f.Bumpiness),
	}
	return lo.Sum(terms)
}

func (h *HeuristicCalculator) Evaluate(b *board.GameBoard) float64 {
	return h.Score(ComputeFeatures(b))
}
