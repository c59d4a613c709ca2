package contract

import (
	"context"

	statex "github.com/leadpilot-crm/leadpilot/agent/state"
)

// Assistant is the conversational entry point: one prompt in, one reply out,
// with per-thread memory keyed by threadID.
type Assistant interface {
	Generate(ctx context.Context, threadID string, prompt string) (string, error)
}

// Summarizer compresses evicted transcript turns into a rolling summary.
type Summarizer interface {
	Summarize(ctx context.Context, previous string, evicted []statex.StoredMessage) (string, error)
}
