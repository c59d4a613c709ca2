package state

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StoredMessage is one persisted transcript turn. Tool rounds are not
// persisted; only what the user said and what the assistant finally replied.
type StoredMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the per-thread memory of the assistant. Older turns are
// folded into Summary when the transcript outgrows its window.
type Conversation struct {
	ThreadID  string          `json:"thread_id"`
	Summary   string          `json:"summary,omitempty"`
	Messages  []StoredMessage `json:"messages,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewConversation(threadID string, now time.Time) *Conversation {
	return &Conversation{
		ThreadID:  threadID,
		UpdatedAt: now.UTC(),
	}
}

func (c *Conversation) Append(role, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	c.Messages = append(c.Messages, StoredMessage{Role: role, Content: content})
}

// TrimTo caps the transcript at limit messages and returns the evicted
// prefix, oldest first, so the caller can summarize it.
func (c *Conversation) TrimTo(limit int) []StoredMessage {
	if limit <= 0 || len(c.Messages) <= limit {
		return nil
	}
	evicted := c.Messages[:len(c.Messages)-limit]
	kept := make([]StoredMessage, limit)
	copy(kept, c.Messages[len(c.Messages)-limit:])
	c.Messages = kept
	return evicted
}

func (c *Conversation) Validate() error {
	if c == nil {
		return ErrNilConversation
	}
	if strings.TrimSpace(c.ThreadID) == "" {
		return ErrInvalidThread
	}
	return nil
}
