package ai

import (
	"fmt"

	"github.com/ardanlabs/connect-sim/cmd/connect/systems/ollama"
)

// Set of known model systems.
const (
	SystemOllama = "ollama"
)

// CreateChatter can create an implementation of the Chatter interface based
// on well known systems. An empty host uses the system's default.
func CreateChatter(system string, model string, host string) (Chatter, error) {
	switch system {
	case SystemOllama:
		return ollama.NewChatter(model, host)
	}

	return nil, fmt.Errorf("unknown system or model: system %q, model %q", system, model)
}
