package match_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ardanlabs/connect-sim/cmd/connect/agent"
	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
	"github.com/google/go-cmp/cmp"
)

// drawColumns fills a 6x7 board with alternating markers, starting with
// player one, and never completes four in a row.
var drawColumns = []int{
	0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0,
	2, 3, 3, 2, 4, 4, 3, 2, 2, 4, 4, 3, 2, 3, 4, 2, 3, 4,
	6, 5, 5, 6, 5, 6, 6, 5, 6, 5, 5, 6,
}

var geo = game.MustGeometry(game.DefaultHeight, game.DefaultWidth)

// script plays a fixed list of columns.
func script(cols ...int) match.Agent {
	var i int
	return match.AgentFunc(func(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
		col := cols[i%len(cols)]
		i++
		return col, nil
	})
}

func heuristic(name string, seed uint64) match.Seat {
	return match.Seat{Name: name, Kind: "heuristic", Agent: agent.NewHeuristic(agent.NewRand(seed))}
}

// =============================================================================

func Test_RunWin(t *testing.T) {
	one := match.Seat{Name: "albert", Agent: script(0, 0, 0, 0)}
	two := match.Seat{Name: "randy", Agent: script(1, 2, 1, 2)}

	var plies int
	obs := func(b *game.Board, mv game.Move) { plies++ }

	res, err := match.NewRunner(geo, one, two, match.WithObserver(obs)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %s", err)
	}

	if res.Outcome != match.OneWins || res.Winner != game.One {
		t.Fatalf("expected player one to win, got %s", res.Outcome)
	}

	if diff := cmp.Diff([]int{0, 1, 0, 2, 0, 1, 0}, res.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	if plies != res.Plies() {
		t.Fatalf("observer saw %d plies, result has %d", plies, res.Plies())
	}

	if res.ID == "" || res.Players != [2]string{"albert", "randy"} {
		t.Fatalf("unexpected result header %q %v", res.ID, res.Players)
	}
}

func Test_RunFirstMover(t *testing.T) {
	one := match.Seat{Name: "one", Agent: script(5, 6)}
	two := match.Seat{Name: "two", Agent: script(3)}

	res, err := match.NewRunner(geo, one, two, match.WithFirst(game.Two)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %s", err)
	}

	if res.First != game.Two || res.Moves[0].Marker != game.Two {
		t.Fatalf("expected player two to move first, got %s", res.Moves[0].Marker)
	}

	if res.Outcome != match.TwoWins {
		t.Fatalf("expected player two to win, got %s", res.Outcome)
	}
}

func Test_RunDraw(t *testing.T) {
	var ones, twos []int
	for i, col := range drawColumns {
		if i%2 == 0 {
			ones = append(ones, col)
			continue
		}
		twos = append(twos, col)
	}

	one := match.Seat{Name: "one", Agent: script(ones...)}
	two := match.Seat{Name: "two", Agent: script(twos...)}

	res, err := match.NewRunner(geo, one, two).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %s", err)
	}

	if res.Outcome != match.Draw || res.Winner != game.Empty {
		t.Fatalf("expected a draw, got %s", res.Outcome)
	}

	if res.Plies() != geo.Cells() {
		t.Fatalf("expected %d plies, got %d", geo.Cells(), res.Plies())
	}
}

func Test_RunIllegalMove(t *testing.T) {
	one := match.Seat{Name: "albert", Agent: script(0)}
	two := match.Seat{Name: "paul", Agent: script(7)}

	_, err := match.NewRunner(geo, one, two).Run(context.Background())

	var ime *game.IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("expected an illegal move error, got %v", err)
	}

	if ime.Column != 7 || ime.Marker != game.Two {
		t.Fatalf("expected column 7 marker two, got column %d marker %s", ime.Column, ime.Marker)
	}
}

func Test_RunFullColumn(t *testing.T) {
	one := match.Seat{Name: "one", Agent: script(0)}
	two := match.Seat{Name: "two", Agent: script(0)}

	_, err := match.NewRunner(geo, one, two).Run(context.Background())
	if !game.IsIllegalMove(err) {
		t.Fatalf("expected an illegal move error for a full column, got %v", err)
	}
}

func Test_RunAgentError(t *testing.T) {
	failing := match.AgentFunc(func(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
		return 0, errors.New("offline")
	})

	_, err := match.NewRunner(geo, heuristic("h", 1), match.Seat{Name: "llm", Agent: failing}).Run(context.Background())
	if err == nil {
		t.Fatal("expected the agent error")
	}
}

func Test_RunHeuristicSelfPlay(t *testing.T) {
	for seed := range uint64(50) {
		r := match.NewRunner(geo, heuristic("a", seed), heuristic("b", seed+1000))

		res, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: %s", seed, err)
		}

		replayed, err := match.Replay(geo, res.First, res.Columns())
		if err != nil {
			t.Fatalf("seed %d: replay: %s", seed, err)
		}

		if diff := cmp.Diff(res.Grid, replayed.Grid); diff != "" {
			t.Fatalf("seed %d: replay grid mismatch (-run +replay):\n%s", seed, diff)
		}

		if replayed.Outcome != res.Outcome {
			t.Fatalf("seed %d: replay outcome %s, run outcome %s", seed, replayed.Outcome, res.Outcome)
		}
	}
}

func Test_ReplayPastCap(t *testing.T) {
	cols := append(append([]int{}, drawColumns...), 0)

	_, err := match.Replay(geo, game.One, cols)
	if !game.IsInvariant(err) {
		t.Fatalf("expected an invariant violation on move 43, got %v", err)
	}

	res, err := match.Replay(geo, game.One, drawColumns)
	if err != nil {
		t.Fatalf("replay of 42 moves: %s", err)
	}

	if res.Outcome != match.Draw {
		t.Fatalf("expected a draw, got %s", res.Outcome)
	}
}

func Test_ReplayAfterWin(t *testing.T) {
	_, err := match.Replay(geo, game.One, []int{0, 1, 0, 1, 0, 1, 0, 6})
	if !game.IsInvariant(err) {
		t.Fatalf("expected an invariant violation after the win, got %v", err)
	}
}

func Test_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := match.NewRunner(geo, heuristic("a", 1), heuristic("b", 2)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

// =============================================================================

func Test_Batch(t *testing.T) {
	const games = 40

	newRunner := func(i int) (*match.Runner, error) {
		return match.NewRunner(geo, heuristic("a", uint64(i)), heuristic("b", uint64(i)+500)), nil
	}

	var mu sync.Mutex
	seen := make(map[int]bool)
	collect := func(i int, res match.Result) error {
		mu.Lock()
		defer mu.Unlock()

		if seen[i] {
			t.Errorf("game %d collected twice", i)
		}
		seen[i] = true

		return nil
	}

	if err := match.Batch(context.Background(), games, 4, newRunner, collect); err != nil {
		t.Fatalf("batch: %s", err)
	}

	if len(seen) != games {
		t.Fatalf("expected %d results, got %d", games, len(seen))
	}
}

func Test_BatchCollectError(t *testing.T) {
	const games = 500

	var started atomic.Int64
	newRunner := func(i int) (*match.Runner, error) {
		started.Add(1)
		return match.NewRunner(geo, heuristic("a", uint64(i)), heuristic("b", uint64(i)+500)), nil
	}

	errSink := errors.New("sink full")

	var calls int
	collect := func(int, match.Result) error {
		calls++
		return errSink
	}

	err := match.Batch(context.Background(), games, 2, newRunner, collect)
	if !errors.Is(err, errSink) {
		t.Fatalf("expected the collect error, got %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected collect to stop after its first error, got %d calls", calls)
	}

	if n := started.Load(); n >= games {
		t.Fatalf("expected the batch to stop starting matches, started %d of %d", n, games)
	}
}

func Test_BatchError(t *testing.T) {
	newRunner := func(i int) (*match.Runner, error) {
		bad := match.Seat{Name: "bad", Agent: script(-1)}
		return match.NewRunner(geo, bad, heuristic("b", 1)), nil
	}

	err := match.Batch(context.Background(), 10, 3, newRunner, func(int, match.Result) error { return nil })
	if !game.IsIllegalMove(err) {
		t.Fatalf("expected an illegal move error from the batch, got %v", err)
	}
}
