package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string

	//go:embed template/summarizer.txt
	summarizerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Assistant  string
	Summarizer string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant:  strings.TrimSpace(assistantRaw),
		Summarizer: strings.TrimSpace(summarizerRaw),
	}
}
