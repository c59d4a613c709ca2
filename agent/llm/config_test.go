package llm

import (
	"errors"
	"testing"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "key", Model: "openai/gpt-4o-mini"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if err := (Config{Model: "m"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing api key, got %v", err)
	}
	if err := (Config{APIKey: "key"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing model, got %v", err)
	}
}

func TestOpenRouterForRoles(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:                "key",
		Model:                 "openai/gpt-4o",
		Temperature:           0.3,
		SummarizerModel:       "openai/gpt-4o-mini",
		SummarizerTemperature: 0.1,
	}

	chat := cfg.OpenRouterFor(RoleChat)
	if chat.Model != "openai/gpt-4o" || chat.Temperature != 0.3 {
		t.Fatalf("unexpected chat config: %+v", chat)
	}

	sum := cfg.OpenRouterFor(RoleSummarizer)
	if sum.Model != "openai/gpt-4o-mini" || sum.Temperature != 0.1 {
		t.Fatalf("unexpected summarizer config: %+v", sum)
	}
}

func TestOpenRouterForSummarizerFallback(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "key", Model: "openai/gpt-4o", Temperature: 0.3, SummarizerTemperature: -1}
	sum := cfg.OpenRouterFor(RoleSummarizer)
	if sum.Model != "openai/gpt-4o" || sum.Temperature != 0.3 {
		t.Fatalf("expected fallback to defaults, got %+v", sum)
	}
}
