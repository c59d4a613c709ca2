package assistant

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
	statex "github.com/leadpilot-crm/leadpilot/agent/state"
)

// TranscriptSummarizer compresses evicted conversation turns into a rolling
// thread summary with a plain chat completion. It is deliberately off the
// eino graph: summarization is a side channel and needs no tool binding.
type TranscriptSummarizer struct {
	client *openaisdk.Client
	model  string
	prompt string
}

var _ contractx.Summarizer = (*TranscriptSummarizer)(nil)

func NewTranscriptSummarizer(client *openaisdk.Client, model, systemPrompt string) *TranscriptSummarizer {
	return &TranscriptSummarizer{
		client: client,
		model:  model,
		prompt: systemPrompt,
	}
}

func (s *TranscriptSummarizer) Summarize(ctx context.Context, previous string, evicted []statex.StoredMessage) (string, error) {
	if s == nil || s.client == nil {
		return previous, nil
	}
	if len(evicted) == 0 {
		return previous, nil
	}

	var b strings.Builder
	if strings.TrimSpace(previous) != "" {
		fmt.Fprintf(&b, "Previous summary:\n%s\n\n", previous)
	}
	b.WriteString("Dropped turns:\n")
	for _, m := range evicted {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}

	completion, err := s.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(s.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(s.prompt),
			openaisdk.UserMessage(b.String()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: summarize transcript: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: summarizer returned no choices", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
