// Package match runs Connect-Four matches between two agents and records the
// outcome.
package match

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/google/uuid"
)

// Agent chooses a column for the marker on the board. It is only called when
// the board has a legal column.
type Agent interface {
	ChooseColumn(ctx context.Context, b *game.Board, own game.Marker) (int, error)
}

// AgentFunc lets an ordinary function act as an Agent.
type AgentFunc func(ctx context.Context, b *game.Board, own game.Marker) (int, error)

// ChooseColumn implements the Agent interface.
func (f AgentFunc) ChooseColumn(ctx context.Context, b *game.Board, own game.Marker) (int, error) {
	return f(ctx, b, own)
}

// Seat is a named agent taking part in a match.
type Seat struct {
	Name  string
	Kind  string
	Agent Agent
}

// =============================================================================

// Outcome is the terminal state of a match.
type Outcome int

// Set of match outcomes.
const (
	Draw Outcome = iota
	OneWins
	TwoWins
)

// OutcomeFor returns the outcome for a winning marker, or Draw for Empty.
func OutcomeFor(winner game.Marker) Outcome {
	switch winner {
	case game.One:
		return OneWins
	case game.Two:
		return TwoWins
	}

	return Draw
}

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OneWins:
		return "one-wins"
	case TwoWins:
		return "two-wins"
	}

	return "draw"
}

// Result is the record of a finished match.
type Result struct {
	ID      string         `json:"id"`
	Outcome Outcome        `json:"outcome"`
	Winner  game.Marker    `json:"winner"`
	Grid    [][]game.Marker `json:"grid"`
	Moves   []game.Move    `json:"moves"`
	First   game.Marker    `json:"first"`
	Players [2]string      `json:"players"`
	Started time.Time      `json:"started"`
	Ended   time.Time      `json:"ended"`
}

// Plies returns the number of moves played.
func (r Result) Plies() int {
	return len(r.Moves)
}

// Columns returns the column of every move in order.
func (r Result) Columns() []int {
	cols := make([]int, len(r.Moves))
	for i, mv := range r.Moves {
		cols[i] = mv.Column
	}

	return cols
}

// =============================================================================

// Observer is called after every ply with the board and the move just made.
type Observer func(b *game.Board, mv game.Move)

// Runner plays matches between two seats. Seat one always uses marker One
// and seat two marker Two.
type Runner struct {
	geo      *game.Geometry
	seats    [2]Seat
	first    game.Marker
	log      *slog.Logger
	observer Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for match progress.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithFirst sets the marker that moves first. The default is One.
func WithFirst(m game.Marker) Option {
	return func(r *Runner) {
		if m.Valid() {
			r.first = m
		}
	}
}

// WithObserver registers a function called after every ply.
func WithObserver(obs Observer) Option {
	return func(r *Runner) {
		r.observer = obs
	}
}

// NewRunner constructs a runner over a shared geometry.
func NewRunner(geo *game.Geometry, one Seat, two Seat, options ...Option) *Runner {
	r := Runner{
		geo:   geo,
		seats: [2]Seat{one, two},
		first: game.One,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range options {
		opt(&r)
	}

	return &r
}

// Run plays one match to completion. An illegal choice or an agent error
// aborts the match; the error names the player and column.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	b := game.New(r.geo)

	res := Result{
		ID:      uuid.NewString(),
		First:   r.first,
		Players: [2]string{r.seats[0].Name, r.seats[1].Name},
		Started: time.Now().UTC(),
	}

	log := r.log.With("match", res.ID)
	log.Info("match started", "one", r.seats[0].Name, "two", r.seats[1].Name, "first", r.first)

	plyCap := r.geo.Cells()
	mover := r.first

	for ply := 0; ; ply++ {
		if ply >= plyCap {
			return res, fmt.Errorf("match %s: %w", res.ID, &game.InvariantError{Msg: fmt.Sprintf("ply %d exceeds cap %d", ply+1, plyCap)})
		}

		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("match %s: %w", res.ID, err)
		}

		seat := r.seat(mover)

		col, err := seat.Agent.ChooseColumn(ctx, b, mover)
		if err != nil {
			return res, fmt.Errorf("match %s: player %s (%s): choose column: %w", res.ID, seat.Name, mover, err)
		}

		mv, done, err := step(b, col, mover)
		if err != nil {
			log.Error("match aborted", "player", seat.Name, "column", col, "ply", ply+1, "err", err)
			return res, fmt.Errorf("match %s: player %s (%s): column %d: %w", res.ID, seat.Name, mover, col, err)
		}

		res.Moves = append(res.Moves, mv)
		log.Debug("ply", "n", ply+1, "player", seat.Name, "column", mv.Column, "row", mv.Row)

		if r.observer != nil {
			r.observer(b, mv)
		}

		if done {
			break
		}

		mover = mover.Opponent()
	}

	res.Winner = b.Winner()
	res.Outcome = OutcomeFor(res.Winner)
	res.Grid = b.Grid()
	res.Ended = time.Now().UTC()

	log.Info("match finished", "outcome", res.Outcome, "plies", res.Plies())

	return res, nil
}

// seat returns the seat playing the marker. Seat i plays MarkerFor(i+1).
func (r *Runner) seat(m game.Marker) Seat {
	for i, s := range r.seats {
		if own, _ := game.MarkerFor(i + 1); own == m {
			return s
		}
	}

	return r.seats[0]
}

// step applies one move and reports whether the board is now terminal.
func step(b *game.Board, col int, mover game.Marker) (game.Move, bool, error) {
	row, err := b.ApplyMove(col, mover)
	if err != nil {
		return game.Move{}, false, err
	}

	mv := game.Move{Column: col, Row: row, Marker: mover}

	// Only the player who just moved can have completed a line.
	if b.CheckWinner(mover) {
		if err := b.RecordWinner(mover); err != nil {
			return mv, false, err
		}
		return mv, true, nil
	}

	if b.IsDraw() {
		return mv, true, nil
	}

	return mv, false, nil
}

// =============================================================================

// Replay applies a recorded column sequence to a new board, alternating
// markers from first. A column after the game ended, or past the ply cap, is
// an invariant violation.
func Replay(geo *game.Geometry, first game.Marker, cols []int) (Result, error) {
	b := game.New(geo)

	res := Result{
		ID:      uuid.NewString(),
		First:   first,
		Started: time.Now().UTC(),
	}

	plyCap := geo.Cells()
	mover := first
	done := false

	for ply, col := range cols {
		switch {
		case ply >= plyCap:
			return res, &game.InvariantError{Msg: fmt.Sprintf("ply %d exceeds cap %d", ply+1, plyCap)}
		case done:
			return res, &game.InvariantError{Msg: fmt.Sprintf("ply %d after the game ended", ply+1)}
		}

		mv, end, err := step(b, col, mover)
		if err != nil {
			return res, fmt.Errorf("ply %d: %w", ply+1, err)
		}

		res.Moves = append(res.Moves, mv)
		done = end
		mover = mover.Opponent()
	}

	res.Winner = b.Winner()
	res.Outcome = OutcomeFor(res.Winner)
	res.Grid = b.Grid()
	res.Ended = time.Now().UTC()

	return res, nil
}
