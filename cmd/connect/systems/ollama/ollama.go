// Package ollama provides an implementation for using ollama.
package ollama

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Chatter implements the Chatter interface.
type Chatter struct {
	llm *ollama.LLM
}

// NewChatter constructs Ollama support for chatting.
func NewChatter(model string, host string) (*Chatter, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if host != "" {
		opts = append(opts, ollama.WithServerURL(host))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("chatter: %w", err)
	}

	chatter := Chatter{
		llm: llm,
	}

	return &chatter, nil
}

// Call implements the Chatter interface.
func (cht *Chatter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, cht.llm, prompt, options...)
}
