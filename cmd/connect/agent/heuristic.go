// Package agent provides the automated players that choose a column for the
// match driver.
package agent

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
)

// ErrNoMoves is returned when a player is asked to move on a full board.
var ErrNoMoves = errors.New("no legal columns")

// Tier identifies which rule selected the heuristic's move.
type Tier int

// Set of heuristic tiers, in priority order.
const (
	TierWin Tier = iota + 1
	TierBlock
	TierRandom
)

// String returns the name of the tier.
func (t Tier) String() string {
	switch t {
	case TierWin:
		return "win"
	case TierBlock:
		return "block"
	case TierRandom:
		return "random"
	}

	return "unknown"
}

// Choose picks a column for the marker: complete one of its own lines if it
// can, otherwise block one of the opponent's lines, otherwise play any open
// cell. Ties inside a tier are broken uniformly with rng.
func Choose(b *game.Board, own game.Marker, rng *rand.Rand) (int, Tier, error) {
	var wins, blocks, rest cells

	winSum := 3 * int(own)
	blockSum := -3 * int(own)

	for _, w := range b.Geometry().Windows() {
		open, ok := openCell(b, w)
		if !ok {
			continue
		}

		for _, c := range w {
			if b.Open(c.Row, c.Col) {
				rest.add(c)
			}
		}

		// Empty cells add nothing to the sum, so a sum of three markers
		// means the open cell is the only empty one in the window.
		switch b.WindowSum(w) {
		case winSum:
			wins.add(open)
		case blockSum:
			blocks.add(open)
		}
	}

	switch {
	case len(wins) > 0:
		return wins.pick(rng).Col, TierWin, nil
	case len(blocks) > 0:
		return blocks.pick(rng).Col, TierBlock, nil
	case len(rest) > 0:
		return rest.pick(rng).Col, TierRandom, nil
	}

	return -1, 0, ErrNoMoves
}

// openCell returns the first open cell of a window.
func openCell(b *game.Board, w game.Window) (game.Coord, bool) {
	for _, c := range w {
		if b.Open(c.Row, c.Col) {
			return c, true
		}
	}

	return game.Coord{}, false
}

// cells is an ordered set of distinct open cells.
type cells []game.Coord

func (cs *cells) add(c game.Coord) {
	for _, have := range *cs {
		if have == c {
			return
		}
	}

	*cs = append(*cs, c)
}

func (cs cells) pick(rng *rand.Rand) game.Coord {
	return cs[rng.IntN(len(cs))]
}

// =============================================================================

// Heuristic is the rule-based player.
type Heuristic struct {
	rng *rand.Rand
}

// NewHeuristic constructs a rule-based player using the random source for
// tie breaks.
func NewHeuristic(rng *rand.Rand) *Heuristic {
	return &Heuristic{rng: rng}
}

// ChooseColumn implements the match agent interface.
func (h *Heuristic) ChooseColumn(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
	col, _, err := Choose(b, own, h.rng)
	return col, err
}

// =============================================================================

// Random plays a uniformly random legal column.
type Random struct {
	rng *rand.Rand
}

// NewRandom constructs a random player.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// ChooseColumn implements the match agent interface.
func (r *Random) ChooseColumn(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
	cols := b.LegalColumns()
	if len(cols) == 0 {
		return -1, ErrNoMoves
	}

	return cols[r.rng.IntN(len(cols))], nil
}

// =============================================================================

// NewRand returns a deterministic random source for the seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
