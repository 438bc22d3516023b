package equity

import "github.com/domino14/dropbot/board"

// Evaluator scores a board. Higher is better. Implementations must be pure:
// the same board always gets the same score and is never modified.
type Evaluator interface {
	Evaluate(b *board.GameBoard) float64
	// Type names the evaluator, for logs and the shell.
	Type() string
}

// FeatureEvaluator is an evaluator that also exposes the features behind
// its score.
type FeatureEvaluator interface {
	Evaluator
	Score(f Features) float64
}
