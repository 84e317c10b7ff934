package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
)

// Set of player kinds a seat can be filled with.
const (
	kindHeuristic = "heuristic"
	kindRandom    = "random"
	kindLLM       = "llm"
)

type config struct {
	Games    int
	Workers  int
	Height   int
	Width    int
	P1       string
	P2       string
	Seed     uint64
	First    game.Marker
	Shuffle  bool
	Verbose  bool
	LogLevel slog.Level

	CSV    string
	PNGDir string

	MongoURI  string
	MongoUser string
	MongoPass string
	MongoDB   string
	Recent    int64

	TUI   bool
	Delay time.Duration
	Speak bool

	Model      string
	OllamaHost string
}

// parseConfig reads the command line. Settings that name external services
// fall back to the environment when the flag is not given.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (config, error) {
	var cfg config
	var logLevel string
	var first string

	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.Games, "games", 1, "number of matches to play")
	fs.IntVar(&cfg.Workers, "workers", 4, "matches played at the same time")
	fs.IntVar(&cfg.Height, "height", game.DefaultHeight, "board rows")
	fs.IntVar(&cfg.Width, "width", game.DefaultWidth, "board columns")
	fs.StringVar(&cfg.P1, "p1", kindHeuristic, "player one: heuristic, random or llm")
	fs.StringVar(&cfg.P2, "p2", kindHeuristic, "player two: heuristic, random or llm")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "random seed, 0 picks one from the clock")
	fs.StringVar(&first, "first", "one", "player that moves first: one or two")
	fs.BoolVar(&cfg.Shuffle, "shuffle", false, "pick the first mover at random for every match")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "print every finished grid")
	fs.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	fs.StringVar(&cfg.CSV, "csv", "", "append finished grids to this CSV file")
	fs.StringVar(&cfg.PNGDir, "png-dir", "", "write a PNG of every finished grid to this directory")

	fs.StringVar(&cfg.MongoURI, "mongo", getenv("CONNECT_MONGO_URI"), "archive matches in this MongoDB")
	fs.StringVar(&cfg.MongoUser, "mongo-user", getenv("CONNECT_MONGO_USER"), "MongoDB user")
	fs.StringVar(&cfg.MongoPass, "mongo-pass", getenv("CONNECT_MONGO_PASS"), "MongoDB password")
	fs.StringVar(&cfg.MongoDB, "mongo-db", "connect4", "MongoDB database")
	fs.Int64Var(&cfg.Recent, "recent", 0, "list this many archived matches after the run")

	fs.BoolVar(&cfg.TUI, "tui", false, "watch the matches in the terminal")
	fs.DurationVar(&cfg.Delay, "delay", 250*time.Millisecond, "pause between moves in the terminal")
	fs.BoolVar(&cfg.Speak, "speak", false, "announce results with mplayer")

	fs.StringVar(&cfg.Model, "model", envOr(getenv, "CONNECT_OLLAMA_MODEL", "llama3.1"), "ollama model for llm players")
	fs.StringVar(&cfg.OllamaHost, "ollama", getenv("CONNECT_OLLAMA_HOST"), "ollama server URL")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return config{}, fmt.Errorf("log-level: %w", err)
	}

	m, err := game.ParseMarker(first)
	if err != nil {
		return config{}, fmt.Errorf("first: %w", err)
	}
	cfg.First = m

	if err := cfg.validate(); err != nil {
		return config{}, err
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	return cfg, nil
}

func (cfg config) validate() error {
	var errs []error

	if cfg.Games < 1 {
		errs = append(errs, fmt.Errorf("games must be at least 1, got %d", cfg.Games))
	}

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers))
	}

	if _, err := game.NewGeometry(cfg.Height, cfg.Width); err != nil {
		errs = append(errs, err)
	}

	for i, kind := range []string{cfg.P1, cfg.P2} {
		switch kind {
		case kindHeuristic, kindRandom, kindLLM:
		default:
			errs = append(errs, fmt.Errorf("p%d: unknown player %q", i+1, kind))
		}
	}

	if cfg.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %s", cfg.Delay))
	}

	return errors.Join(errs...)
}

// usesLLM reports whether either seat needs the model.
func (cfg config) usesLLM() bool {
	return cfg.P1 == kindLLM || cfg.P2 == kindLLM
}

func envOr(getenv func(string) string, key string, def string) string {
	if v := getenv(key); v != "" {
		return v
	}

	return def
}

// seedFor derives the seeds for one match so every match owns its random
// sources and a run can be repeated from the base seed.
func (cfg config) seedFor(index int, stream uint64) uint64 {
	return cfg.Seed + uint64(index)*3 + stream
}
