package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
	statex "github.com/leadpilot-crm/leadpilot/agent/state"
	toolx "github.com/leadpilot-crm/leadpilot/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	inputs    [][]*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

type executedCall struct {
	tool string
	args map[string]any
}

type fakeExecutor struct {
	calls   []executedCall
	content string
	err     error
}

func (f *fakeExecutor) execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	f.calls = append(f.calls, executedCall{tool: tool, args: args})
	if f.err != nil {
		return contractx.ToolResult{}, f.err
	}
	return contractx.ToolResult{Tool: tool, Content: f.content}, nil
}

type fakeSummarizer struct {
	calls   int
	evicted []statex.StoredMessage
	out     string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, previous string, evicted []statex.StoredMessage) (string, error) {
	f.calls++
	f.evicted = evicted
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func newTestAssistant(t *testing.T, fake *fakeToolCallingModel, exec toolx.Executor, store statex.Store, opts ...Option) *Assistant {
	t.Helper()
	a, err := New(context.Background(), fake, nil, exec, store, "crm assistant prompt, summary: {summary}", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestGenerateDirectReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("Hello! How can I help with your leads?", nil),
		},
	}
	exec := &fakeExecutor{}
	store := statex.NewMemoryStore()
	a := newTestAssistant(t, fake, exec.execute, store)

	reply, err := a.Generate(context.Background(), "thread-1", "hi")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "Hello! How can I help with your leads?" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("expected no tool calls, got %d", len(exec.calls))
	}

	conv, err := store.Load(context.Background(), "thread-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != statex.RoleUser || conv.Messages[0].Content != "hi" {
		t.Fatalf("unexpected first stored message: %#v", conv.Messages[0])
	}
	if conv.Messages[1].Role != statex.RoleAssistant {
		t.Fatalf("unexpected second stored message: %#v", conv.Messages[1])
	}
}

func TestGenerateRunsToolLoop(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{
						ID: "call-1",
						Function: schema.FunctionCall{
							Name:      "get_leads",
							Arguments: `{"filters":{"status":"New"}}`,
						},
					},
				},
			},
			schema.AssistantMessage("You have one new lead: Asha Rao.", nil),
		},
	}
	exec := &fakeExecutor{content: "Lead 1:\n- Name: Asha Rao"}
	store := statex.NewMemoryStore()
	a := newTestAssistant(t, fake, exec.execute, store)

	reply, err := a.Generate(context.Background(), "thread-loop", "show new leads")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "You have one new lead: Asha Rao." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("expected 1 executed tool, got %d", len(exec.calls))
	}
	if exec.calls[0].tool != "get_leads" {
		t.Fatalf("unexpected tool: %s", exec.calls[0].tool)
	}
	filters, ok := exec.calls[0].args["filters"].(map[string]any)
	if !ok || filters["status"] != "New" {
		t.Fatalf("unexpected args: %#v", exec.calls[0].args)
	}

	// Second model turn must see the tool result in its input.
	if len(fake.inputs) != 2 {
		t.Fatalf("expected 2 model invocations, got %d", len(fake.inputs))
	}
	last := fake.inputs[1][len(fake.inputs[1])-1]
	if last.Role != schema.Tool || last.ToolCallID != "call-1" {
		t.Fatalf("expected trailing tool message for call-1, got %#v", last)
	}
	if last.Content != "Lead 1:\n- Name: Asha Rao" {
		t.Fatalf("unexpected tool message content: %q", last.Content)
	}
}

func TestGenerateToolRoundBudget(t *testing.T) {
	t.Parallel()

	toolTurn := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "c", Function: schema.FunctionCall{Name: "get_leads", Arguments: "{}"}},
		},
	}
	fake := &fakeToolCallingModel{
		responses: []*schema.Message{toolTurn, toolTurn, toolTurn},
	}
	exec := &fakeExecutor{content: "No leads found."}
	a := newTestAssistant(t, fake, exec.execute, statex.NewMemoryStore(), WithMaxToolRounds(2))

	_, err := a.Generate(context.Background(), "thread-budget", "loop forever")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{}
	a := newTestAssistant(t, fake, (&fakeExecutor{}).execute, statex.NewMemoryStore())

	if _, err := a.Generate(context.Background(), "", "hello"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty thread, got %v", err)
	}
	if _, err := a.Generate(context.Background(), "thread-1", "   "); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestGenerateRejectsMalformedToolArgs(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "c", Function: schema.FunctionCall{Name: "get_leads", Arguments: "{not json"}},
				},
			},
		},
	}
	a := newTestAssistant(t, fake, (&fakeExecutor{}).execute, statex.NewMemoryStore())

	_, err := a.Generate(context.Background(), "thread-bad-args", "show leads")
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestGenerateCompactsTranscript(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	seed := statex.NewConversation("thread-trim", time.Now())
	seed.Append(statex.RoleUser, "old question")
	seed.Append(statex.RoleAssistant, "old answer")
	if err := store.Save(context.Background(), seed); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			schema.AssistantMessage("done", nil),
		},
	}
	sum := &fakeSummarizer{out: "user asked an old question and got an answer"}
	a := newTestAssistant(t, fake, (&fakeExecutor{}).execute, store,
		WithHistoryWindow(2), WithSummarizer(sum))

	if _, err := a.Generate(context.Background(), "thread-trim", "new question"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	conv, err := store.Load(context.Background(), "thread-trim")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected transcript trimmed to 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Content != "new question" {
		t.Fatalf("expected newest turns kept, got %#v", conv.Messages)
	}
	if sum.calls != 1 {
		t.Fatalf("expected summarizer to run once, ran %d times", sum.calls)
	}
	if len(sum.evicted) != 2 {
		t.Fatalf("expected 2 evicted messages, got %d", len(sum.evicted))
	}
	if conv.Summary != "user asked an old question and got an answer" {
		t.Fatalf("unexpected summary: %q", conv.Summary)
	}
}
