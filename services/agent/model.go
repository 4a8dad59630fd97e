package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"
)

// Completion is either a final answer (no tool calls) or a batch of tool
// calls to execute before asking the model again.
type Completion struct {
	Text       string
	ToolCalls  []models.ToolCall
	StopReason string
	Model      string
}

func (c *Completion) IsFinal() bool {
	return len(c.ToolCalls) == 0
}

type ModelClient interface {
	Complete(ctx context.Context, turns []models.AgentMessage, tools []ToolDescriptor) (*Completion, error)
}

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewModelClient builds the client for provider. A missing credential is an
// error so callers can run without the agent.
func NewModelClient(provider, apiKey, model string) (ModelClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing API key for model provider %s", provider)
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, model)
	case ProviderGroq:
		return NewGroqClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", provider)
	}
}

// mapToolCalls checks each call names a tool and coerces its arguments onto
// the matching descriptor's declared types.
func mapToolCalls(calls []models.ToolCall, tools []ToolDescriptor) ([]models.ToolCall, error) {
	out := make([]models.ToolCall, 0, len(calls))
	for i, call := range calls {
		if strings.TrimSpace(call.Name) == "" {
			return nil, fmt.Errorf("%w: tool call %d has no name", ErrModelProtocol, i)
		}
		if call.Arguments == nil {
			call.Arguments = map[string]any{}
		}
		for _, descriptor := range tools {
			if descriptor.Name == call.Name {
				call.Arguments = coerceArguments(descriptor, call.Arguments)
				break
			}
		}
		out = append(out, call)
	}
	return out, nil
}
