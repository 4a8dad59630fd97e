package agent

import (
	"context"
	"sync"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/invopop/jsonschema"
)

type modelStep func(turns []models.AgentMessage) (*Completion, error)

// scriptedModel replays steps in order and repeats the last one when the
// script runs out.
type scriptedModel struct {
	mu    sync.Mutex
	steps []modelStep
	calls int
	seen  [][]models.AgentMessage
	tools [][]ToolDescriptor
}

func newScriptedModel(steps ...modelStep) *scriptedModel {
	return &scriptedModel{steps: steps}
}

func (m *scriptedModel) Complete(ctx context.Context, turns []models.AgentMessage, tools []ToolDescriptor) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen = append(m.seen, append([]models.AgentMessage(nil), turns...))
	m.tools = append(m.tools, tools)

	i := min(m.calls, len(m.steps)-1)
	m.calls++
	return m.steps[i](turns)
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func finalAnswer(text string) modelStep {
	return func([]models.AgentMessage) (*Completion, error) {
		return &Completion{Text: text, StopReason: "end_turn"}, nil
	}
}

func toolBatch(calls ...models.ToolCall) modelStep {
	return func([]models.AgentMessage) (*Completion, error) {
		return &Completion{ToolCalls: calls, StopReason: "tool_use"}, nil
	}
}

func failWith(err error) modelStep {
	return func([]models.AgentMessage) (*Completion, error) {
		return nil, err
	}
}

func call(id, name string, args map[string]any) models.ToolCall {
	return models.ToolCall{ID: id, Name: name, Arguments: args}
}

type stubToolInput struct {
	Value string `json:"value,omitempty" jsonschema:"description=Value to echo"`
}

type stubTool struct {
	name string
	fn   func(ctx context.Context, input string) (string, error)
}

func (s stubTool) Name() string {
	return s.name
}

func (s stubTool) Description() string {
	return "stub tool " + s.name
}

func (s stubTool) InputSchema() *jsonschema.Schema {
	return generateSchema[stubToolInput]()
}

func (s stubTool) Call(ctx context.Context, input string) (string, error) {
	return s.fn(ctx, input)
}

func echoTool(name string) stubTool {
	return stubTool{name: name, fn: func(ctx context.Context, input string) (string, error) {
		return name + ":" + input, nil
	}}
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	answer  string
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

type fakeConverter struct {
	rate float64
	err  error
}

func (f fakeConverter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	return amount * f.rate, f.err
}
