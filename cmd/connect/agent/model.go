package agent

import (
	"context"
	"fmt"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
)

// Predictor is implemented by players whose decision process lives outside
// this program, such as a language model or a trained network.
type Predictor interface {
	Predict(ctx context.Context, snap game.Snapshot) (int, error)
}

// Model adapts a Predictor to the match agent interface. The column it
// returns is not validated here; the match driver rejects illegal choices.
type Model struct {
	predictor Predictor
}

// NewModel constructs a player backed by the predictor.
func NewModel(predictor Predictor) *Model {
	return &Model{predictor: predictor}
}

// ChooseColumn implements the match agent interface.
func (m *Model) ChooseColumn(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
	if len(b.LegalColumns()) == 0 {
		return -1, ErrNoMoves
	}

	col, err := m.predictor.Predict(ctx, b.Snapshot(own))
	if err != nil {
		return -1, fmt.Errorf("predict: %w", err)
	}

	return col, nil
}

// PredictorFunc lets an ordinary function act as a Predictor.
type PredictorFunc func(ctx context.Context, snap game.Snapshot) (int, error)

// Predict implements the Predictor interface.
func (f PredictorFunc) Predict(ctx context.Context, snap game.Snapshot) (int, error) {
	return f(ctx, snap)
}
