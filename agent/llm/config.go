// Package llm maps a single environment-driven config onto per-role model
// settings, so the chat assistant and the transcript summarizer can run on
// different OpenRouter models without separate credential blocks.
package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
	openrouterx "github.com/leadpilot-crm/leadpilot/pkg/openrouter"
)

// Role selects which model settings apply.
type Role string

const (
	RoleChat       Role = "chat"
	RoleSummarizer Role = "summarizer"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.3"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Role overrides. Empty model or negative temperature falls back to
	// the defaults above.
	SummarizerModel       string  `envconfig:"SUMMARIZER_MODEL" split_words:"true"`
	SummarizerTemperature float32 `envconfig:"SUMMARIZER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the OpenRouter settings for a role.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	if role == RoleSummarizer {
		if v := strings.TrimSpace(c.SummarizerModel); v != "" {
			modelName = v
		}
		if c.SummarizerTemperature >= 0 {
			temp = c.SummarizerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
