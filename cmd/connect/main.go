// This program simulates Connect-Four matches between scripted, random and
// model-driven players.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/agent"
	"github.com/ardanlabs/connect-sim/cmd/connect/ai"
	"github.com/ardanlabs/connect-sim/cmd/connect/board"
	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
	"github.com/ardanlabs/connect-sim/cmd/connect/store"
	"github.com/ardanlabs/connect-sim/foundation/mongodb"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const logFile = "log.txt"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args, os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// -------------------------------------------------------------------------
	// Logging. The terminal view owns the screen so logs go to a file.

	var out io.Writer = os.Stderr
	if cfg.TUI {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0666)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("startup", "games", cfg.Games, "workers", cfg.Workers, "p1", cfg.P1, "p2", cfg.P2, "seed", cfg.Seed)

	geo, err := game.NewGeometry(cfg.Height, cfg.Width)
	if err != nil {
		return err
	}

	// -------------------------------------------------------------------------
	// Open a connection with ollama to access the model.

	var predictor agent.Predictor
	if cfg.usesLLM() {
		chat, err := ai.CreateChatter(ai.SystemOllama, cfg.Model, cfg.OllamaHost)
		if err != nil {
			return fmt.Errorf("ollama: %w", err)
		}

		predictor = ai.New(chat, logger)
	}

	// -------------------------------------------------------------------------
	// Connect to mongo.

	var archive *store.Archive
	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		logger.Info("connecting to MongoDB")

		client, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPass)
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer client.Disconnect(context.Background())

		archive, err = store.NewArchive(connectCtx, client, cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("new archive: %w", err)
		}
	}

	// -------------------------------------------------------------------------
	// Build the sinks every finished match is written to.

	var speaker *board.Speaker
	if cfg.Speak {
		speaker = board.NewSpeaker(logger, "audio", true)
		defer speaker.Wait()
	}

	sim := simulator{
		cfg:       cfg,
		geo:       geo,
		log:       logger,
		predictor: predictor,
		archive:   archive,
		stdout:    os.Stdout,
	}

	if cfg.CSV != "" {
		sim.csv = store.NewCSV(cfg.CSV, geo.Height(), geo.Width())
	}

	// -------------------------------------------------------------------------
	// Play the matches.

	switch {
	case cfg.TUI:
		err = sim.watch(ctx, speaker)
	default:
		newRunner := func(index int) (*match.Runner, error) {
			return sim.newRunner(index)
		}
		err = match.Batch(ctx, cfg.Games, cfg.Workers, newRunner, sim.collect(ctx))
	}

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("run canceled", "played", sim.tally.Total())
	case err != nil:
		return err
	}

	sim.summary(speaker)

	if archive != nil {
		if err := sim.archiveReport(ctx); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// simulator holds what every match of a run shares.
type simulator struct {
	cfg       config
	geo       *game.Geometry
	log       *slog.Logger
	predictor agent.Predictor
	csv       *store.CSV
	archive   *store.Archive
	stdout    io.Writer
	tally     store.Tally
}

// newRunner builds the runner for one match with its own random sources.
func (s *simulator) newRunner(index int, options ...match.Option) (*match.Runner, error) {
	one, err := s.seat(s.cfg.P1, "p1", s.cfg.seedFor(index, 1))
	if err != nil {
		return nil, err
	}

	two, err := s.seat(s.cfg.P2, "p2", s.cfg.seedFor(index, 2))
	if err != nil {
		return nil, err
	}

	// Markers stay with the seat, only the first mover changes.
	first := s.cfg.First
	if !first.Valid() {
		first = game.One
	}
	if s.cfg.Shuffle {
		first, _ = game.MarkerFor(agent.NewRand(s.cfg.seedFor(index, 0)).IntN(2) + 1)
	}

	options = append([]match.Option{match.WithLogger(s.log), match.WithFirst(first)}, options...)

	return match.NewRunner(s.geo, one, two, options...), nil
}

func (s *simulator) seat(kind string, name string, seed uint64) (match.Seat, error) {
	seat := match.Seat{
		Name: fmt.Sprintf("%s:%s", name, kind),
		Kind: kind,
	}

	switch kind {
	case kindHeuristic:
		seat.Agent = agent.NewHeuristic(agent.NewRand(seed))
	case kindRandom:
		seat.Agent = agent.NewRandom(agent.NewRand(seed))
	case kindLLM:
		if s.predictor == nil {
			return match.Seat{}, errors.New("llm player without a model")
		}
		seat.Agent = agent.NewModel(s.predictor)
	default:
		return match.Seat{}, fmt.Errorf("unknown player %q", kind)
	}

	return seat, nil
}

// collect returns the function that writes a finished match to every sink.
func (s *simulator) collect(ctx context.Context) func(index int, res match.Result) error {
	return func(index int, res match.Result) error {
		s.tally.Add(res.Outcome)

		if s.cfg.Verbose {
			fmt.Fprintf(s.stdout, "game %d: %s in %d moves\n%s\n", index+1, res.Outcome, res.Plies(), board.Text(res.Grid))
		}

		if s.csv != nil {
			if err := s.csv.Append(store.RecordOf(res)); err != nil {
				return fmt.Errorf("csv: %w", err)
			}
		}

		if s.cfg.PNGDir != "" {
			if _, err := board.WritePNG(s.cfg.PNGDir, res.ID, res.Grid); err != nil {
				return fmt.Errorf("image: %w", err)
			}
		}

		if s.archive != nil {
			if err := s.archive.Save(ctx, res); err != nil {
				return fmt.Errorf("archive: %w", err)
			}
		}

		return nil
	}
}

// watch plays the matches one after another on the terminal.
func (s *simulator) watch(ctx context.Context, speaker *board.Speaker) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tb, err := board.NewTerminal(s.geo, speaker)
	if err != nil {
		return fmt.Errorf("new board: %w", err)
	}
	defer tb.Shutdown()

	quit := tb.Run()
	go func() {
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	observe := func(b *game.Board, mv game.Move) {
		tb.Observe(b, mv)
		pause(ctx, s.cfg.Delay)
	}

	collect := s.collect(ctx)

	for i := range s.cfg.Games {
		r, err := s.newRunner(i, match.WithObserver(observe))
		if err != nil {
			return err
		}

		tb.Start(fmt.Sprintf("p1:%s", s.cfg.P1), fmt.Sprintf("p2:%s", s.cfg.P2))

		res, err := r.Run(ctx)
		if err != nil {
			return err
		}

		tb.Finish(res)

		if err := collect(i, res); err != nil {
			return err
		}

		pause(ctx, 8*s.cfg.Delay)
	}

	// Leave the last result on screen until the user quits.
	<-ctx.Done()

	return nil
}

// summary prints the outcome counts of the run.
func (s *simulator) summary(speaker *board.Speaker) {
	p := message.NewPrinter(language.English)

	t := s.tally
	if t.Total() == 0 {
		return
	}

	pct := func(n int) float64 {
		return 100 * float64(n) / float64(t.Total())
	}

	p.Fprintf(s.stdout, "games played: %d\n", t.Total())
	p.Fprintf(s.stdout, "p1:%s wins: %d (%.1f%%)\n", s.cfg.P1, t.OneWins, pct(t.OneWins))
	p.Fprintf(s.stdout, "p2:%s wins: %d (%.1f%%)\n", s.cfg.P2, t.TwoWins, pct(t.TwoWins))
	p.Fprintf(s.stdout, "draws: %d (%.1f%%)\n", t.Draws, pct(t.Draws))

	if speaker != nil && !s.cfg.TUI {
		speaker.Speak(p.Sprintf("Player one won %d of %d games", t.OneWins, t.Total()))
	}
}

// archiveReport prints the totals and latest matches held in the archive.
func (s *simulator) archiveReport(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	t, err := s.archive.Tally(ctx)
	if err != nil {
		return fmt.Errorf("archive tally: %w", err)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(s.stdout, "archive: %d matches, %d p1 wins, %d p2 wins, %d draws\n", t.Total(), t.OneWins, t.TwoWins, t.Draws)

	if s.cfg.Recent <= 0 {
		return nil
	}

	docs, err := s.archive.Recent(ctx, s.cfg.Recent)
	if err != nil {
		return fmt.Errorf("archive recent: %w", err)
	}

	for _, d := range docs {
		p.Fprintf(s.stdout, "%s  %s  %-9s %2d moves  %v\n", d.Ended.Format(time.DateTime), d.MatchID, d.Outcome, d.Plies, d.Players)
	}

	return nil
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
