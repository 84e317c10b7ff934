package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/connect-sim/cmd/connect/ai"
	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/tmc/langchaingo/llms"
)

// chatter answers prompts from a fixed list and records what it was asked.
type chatter struct {
	answers []string
	prompts []string
	err     error
}

func (c *chatter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if c.err != nil {
		return "", c.err
	}

	c.prompts = append(c.prompts, prompt)
	answer := c.answers[0]
	if len(c.answers) > 1 {
		c.answers = c.answers[1:]
	}

	return answer, nil
}

func snapshot(t *testing.T, full ...int) game.Snapshot {
	t.Helper()

	b, err := game.NewBoard(game.DefaultHeight, game.DefaultWidth)
	if err != nil {
		t.Fatalf("new board: %s", err)
	}

	m := game.One
	for _, col := range full {
		for range b.Height() {
			b.ApplyMove(col, m)
			m = m.Opponent()
		}
	}

	b.ApplyMove(3, game.Two)

	return b.Snapshot(game.One)
}

// =============================================================================

func Test_LLMPick(t *testing.T) {
	c := chatter{answers: []string{"```json\n{\"Column\": 5, \"Reason\": \"center\"}\n```"}}

	pick, err := ai.New(&c, nil).LLMPick(context.Background(), snapshot(t))
	if err != nil {
		t.Fatalf("pick: %s", err)
	}

	if pick.Column != 5 || pick.Reason != "center" || pick.Attempts != 1 {
		t.Fatalf("unexpected pick %+v", pick)
	}

	prompt := c.prompts[0]
	if !strings.Contains(prompt, "[1,2,3,4,5,6,7]") {
		t.Errorf("expected one-based legal columns in the prompt:\n%s", prompt)
	}

	if !strings.Contains(prompt, "| . | . | . | Y | . | . | . |") {
		t.Errorf("expected the opponent's piece in the prompt:\n%s", prompt)
	}
}

func Test_LLMPickRetry(t *testing.T) {
	c := chatter{answers: []string{
		`{"Column": 1, "Reason": "full"}`,
		`{"Column": 2, "Reason": "open"}`,
	}}

	pick, err := ai.New(&c, nil).LLMPick(context.Background(), snapshot(t, 0))
	if err != nil {
		t.Fatalf("pick: %s", err)
	}

	if pick.Column != 2 || pick.Attempts != 2 {
		t.Fatalf("expected column 2 after a retry, got %+v", pick)
	}

	if len(c.prompts) != 2 || !strings.Contains(c.prompts[1], "didn't provide a single column") {
		t.Fatalf("expected a second prompt asking again, got %d prompts", len(c.prompts))
	}
}

func Test_PredictUnvalidated(t *testing.T) {
	c := chatter{answers: []string{`{"Column": 1, "Reason": "stubborn"}`}}

	col, err := ai.New(&c, nil).Predict(context.Background(), snapshot(t, 0))
	if err != nil {
		t.Fatalf("predict: %s", err)
	}

	if col != 0 {
		t.Fatalf("expected the final answer as given, column 0, got %d", col)
	}

	if len(c.prompts) != 2 {
		t.Fatalf("expected exactly one retry, got %d prompts", len(c.prompts))
	}
}

func Test_LLMPickErrors(t *testing.T) {
	c := chatter{answers: []string{"column three"}}
	if _, err := ai.New(&c, nil).LLMPick(context.Background(), snapshot(t)); err == nil {
		t.Error("expected an error for an answer that is not JSON")
	}

	offline := chatter{err: errors.New("offline")}
	if _, err := ai.New(&offline, nil).Predict(context.Background(), snapshot(t)); err == nil {
		t.Error("expected the chatter error")
	}
}

func Test_BoardText(t *testing.T) {
	grid := [][]game.Marker{
		{game.Empty, game.One, game.Two},
		{game.Two, game.One, game.One},
	}

	got := ai.BoardText(grid, game.Two)
	want := "| . | Y | R |\n| R | Y | Y |\n"

	if got != want {
		t.Fatalf("board text mismatch:\nwant\n%s\ngot\n%s", want, got)
	}
}
