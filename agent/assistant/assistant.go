package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
	statex "github.com/leadpilot-crm/leadpilot/agent/state"
	toolx "github.com/leadpilot-crm/leadpilot/agent/tool"
)

const (
	defaultMaxToolRounds = 4
	defaultHistoryWindow = 20
)

// Assistant runs one conversational turn: it loads the thread transcript,
// lets the model plan tool calls, executes them, and persists the resulting
// transcript. It implements contract.Assistant.
type Assistant struct {
	runner        compose.Runnable[map[string]any, *schema.Message]
	execute       toolx.Executor
	store         statex.Store
	summarizer    contractx.Summarizer
	maxToolRounds int
	historyWindow int
}

type Option func(*Assistant)

// WithMaxToolRounds bounds how many model turns may request tools before
// the turn is aborted.
func WithMaxToolRounds(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.maxToolRounds = n
		}
	}
}

// WithHistoryWindow sets how many stored messages a thread keeps before the
// oldest turns are evicted into the summary.
func WithHistoryWindow(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.historyWindow = n
		}
	}
}

// WithSummarizer folds evicted transcript turns into the thread summary.
// Without one, evicted turns are dropped.
func WithSummarizer(s contractx.Summarizer) Option {
	return func(a *Assistant) { a.summarizer = s }
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	infos []*schema.ToolInfo,
	execute toolx.Executor,
	store statex.Store,
	systemPrompt string,
	opts ...Option,
) (*Assistant, error) {
	if execute == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: conversation store is required", contractx.ErrValidation)
	}

	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileChatGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	a := &Assistant{
		runner:        runner,
		execute:       execute,
		store:         store,
		maxToolRounds: defaultMaxToolRounds,
		historyWindow: defaultHistoryWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Generate runs one user turn on the given thread and returns the
// assistant's reply.
func (a *Assistant) Generate(ctx context.Context, threadID, prompt string) (string, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return "", fmt.Errorf("%w: thread id is required", contractx.ErrValidation)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", contractx.ErrPromptMissing
	}

	conv, err := a.store.Load(ctx, threadID)
	if err != nil {
		if !errors.Is(err, statex.ErrThreadNotFound) {
			return "", fmt.Errorf("load thread=%s: %w", threadID, err)
		}
		conv = statex.NewConversation(threadID, time.Now())
	}

	history := transcriptMessages(conv)
	history = append(history, schema.UserMessage(prompt))

	final, err := a.runToolLoop(ctx, conv.Summary, history)
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(final.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: assistant reply is empty", contractx.ErrSchemaViolation)
	}

	conv.Append(statex.RoleUser, prompt)
	conv.Append(statex.RoleAssistant, reply)
	conv.UpdatedAt = time.Now().UTC()
	a.compact(ctx, conv)
	if err := a.store.Save(ctx, conv); err != nil {
		log.Warn().Err(err).Str("thread_id", threadID).Msg("save conversation failed")
	}

	return reply, nil
}

// runToolLoop re-invokes the chat runner until the model answers without
// tool calls or the round budget is spent.
func (a *Assistant) runToolLoop(ctx context.Context, summary string, history []*schema.Message) (*schema.Message, error) {
	for round := 0; round <= a.maxToolRounds; round++ {
		msg, err := a.runner.Invoke(ctx, map[string]any{
			"summary": summaryOrNone(summary),
			"history": history,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: chat invoke: %v", contractx.ErrModelInvoke, err)
		}
		if msg == nil {
			return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
		}
		if len(msg.ToolCalls) == 0 {
			return msg, nil
		}
		if round == a.maxToolRounds {
			return nil, fmt.Errorf("%w: tool round budget exhausted after %d rounds", contractx.ErrModelInvoke, a.maxToolRounds)
		}

		history = append(history, msg)
		for _, call := range msg.ToolCalls {
			req, err := toToolRequest(call)
			if err != nil {
				return nil, err
			}
			result, err := a.execute(ctx, req.Tool, req.Args)
			if err != nil {
				// Tool handlers report failures as text; an error here
				// means the dispatch itself broke.
				return nil, fmt.Errorf("%w: execute tool=%s: %v", contractx.ErrModelInvoke, req.Tool, err)
			}
			history = append(history, schema.ToolMessage(result.Content, call.ID, schema.WithToolName(req.Tool)))
		}
	}
	return nil, fmt.Errorf("%w: tool round budget exhausted", contractx.ErrModelInvoke)
}

// compact trims the transcript to the history window and, when a summarizer
// is configured, folds the evicted turns into the thread summary.
func (a *Assistant) compact(ctx context.Context, conv *statex.Conversation) {
	evicted := conv.TrimTo(a.historyWindow)
	if len(evicted) == 0 || a.summarizer == nil {
		return
	}
	summary, err := a.summarizer.Summarize(ctx, conv.Summary, evicted)
	if err != nil {
		log.Warn().Err(err).Str("thread_id", conv.ThreadID).Msg("transcript summarization failed")
		return
	}
	if strings.TrimSpace(summary) != "" {
		conv.Summary = strings.TrimSpace(summary)
	}
}

func transcriptMessages(conv *statex.Conversation) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(conv.Messages)+1)
	for _, m := range conv.Messages {
		switch m.Role {
		case statex.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	return msgs
}

func toToolRequest(call schema.ToolCall) (contractx.ToolRequest, error) {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.ToolRequest{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolRequest{}, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
		}
	}
	return contractx.ToolRequest{ID: call.ID, Tool: name, Args: args}, nil
}

func summaryOrNone(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return "(none)"
	}
	return summary
}
