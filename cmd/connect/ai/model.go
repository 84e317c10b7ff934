package ai

// PickResponse provides the LLM's choice for the next move. Column is
// one-based.
type PickResponse struct {
	Column   int
	Reason   string
	Attempts int `json:"-"`
}
