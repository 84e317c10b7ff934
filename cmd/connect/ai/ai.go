// Package ai provides support for asking a large language model to choose
// the next column of a connect 4 board.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/tmc/langchaingo/llms"
)

// Chatter represents a model that can answer a prompt.
type Chatter interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// AI provides support to process connect 4 boards.
type AI struct {
	chat    Chatter
	log     *slog.Logger
	timeout time.Duration
}

// New construct the AI api for use.
func New(chat Chatter, log *slog.Logger) *AI {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &AI{
		chat:    chat,
		log:     log,
		timeout: 300 * time.Second,
	}
}

// Predict implements the agent.Predictor interface. The column the model
// answers with is converted back to a zero-based index but not validated.
func (ai *AI) Predict(ctx context.Context, snap game.Snapshot) (int, error) {
	pick, err := ai.LLMPick(ctx, snap)
	if err != nil {
		return 0, err
	}

	return pick.Column - 1, nil
}

// LLMPick perform a review of the game board and makes a choice.
func (ai *AI) LLMPick(ctx context.Context, snap game.Snapshot) (PickResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	// The model is always told it plays Red, whichever marker it holds.
	grid := BoardText(snap.Grid, snap.Marker)

	// Columns are offered one-based since that is how people count them.
	legal := snap.LegalColumns()
	moves := make([]string, len(legal))
	offered := make(map[int]bool, len(legal))
	for i, col := range legal {
		moves[i] = strconv.Itoa(col + 1)
		offered[col+1] = true
	}

	prompt := fmt.Sprintf(promptPick, strings.Join(moves, ","), grid)

	var pick PickResponse

	// The LLM sometimes doesn't pick a column from the list, so we may
	// need to tell the LLM it didn't listen and try again.
	attempts := 1
	for ; attempts <= 2; attempts++ {
		ai.log.Debug("llm pick", "attempt", attempts, "prompt", prompt)

		response, err := ai.chat.Call(ctx, prompt, llms.WithMaxTokens(5000), llms.WithTemperature(0.8))
		if err != nil {
			return PickResponse{}, fmt.Errorf("call: %w", err)
		}

		ai.log.Debug("llm pick", "attempt", attempts, "response", response)

		pick, err = parsePick(response)
		if err != nil {
			return PickResponse{}, fmt.Errorf("unmarshal: %w", err)
		}

		if offered[pick.Column] || attempts == 2 {
			break
		}

		// Tell the LLM they didn't listen and try again.
		prompt = fmt.Sprintf(promptPickAgain, prompt, response)
	}

	pick.Attempts = attempts

	ai.log.Debug("llm pick", "column", pick.Column, "attempts", attempts, "reason", pick.Reason)

	return pick, nil
}

// BoardText renders the grid the way the model expects it to look. The
// player using marker own is shown as R and the opponent as Y.
//
//	| . | . | . | . | . | . | . |
//	| . | . | . | R | . | . | . |
//	| . | . | Y | Y | . | . | . |
func BoardText(grid [][]game.Marker, own game.Marker) string {
	var b strings.Builder

	for _, row := range grid {
		b.WriteString("|")
		for _, m := range row {
			switch {
			case m == game.Empty:
				b.WriteString(" . |")
			case m == own:
				b.WriteString(" R |")
			default:
				b.WriteString(" Y |")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// parsePick decodes the JSON document the model answers with.
func parsePick(response string) (PickResponse, error) {

	// I had a situation where the response was marked with this character.
	response = strings.TrimSpace(response)
	response = strings.Trim(response, "`")
	response = strings.TrimPrefix(response, "json")

	var pick PickResponse
	if err := json.Unmarshal([]byte(response), &pick); err != nil {
		return PickResponse{}, err
	}

	return pick, nil
}
