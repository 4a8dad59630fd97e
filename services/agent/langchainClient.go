package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// LangchainClient talks to OpenAI-compatible chat completion endpoints
// through langchaingo.
type LangchainClient struct {
	llm       llms.Model
	provider  string
	model     string
	maxTokens int
}

func NewLangchainClient(llm llms.Model, provider, model string) *LangchainClient {
	return &LangchainClient{
		llm:       llm,
		provider:  provider,
		model:     model,
		maxTokens: 4096,
	}
}

func NewOpenAIClient(apiKey, model string) (*LangchainClient, error) {
	if model == "" {
		model = "gpt-4o-mini"
	}
	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLangchainClient(llm, ProviderOpenAI, model), nil
}

func NewGroqClient(apiKey, model string) (*LangchainClient, error) {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
		openai.WithBaseURL(groqBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Groq client: %w", err)
	}
	return NewLangchainClient(llm, ProviderGroq, model), nil
}

func (c *LangchainClient) Complete(ctx context.Context, turns []models.AgentMessage, tools []ToolDescriptor) (*Completion, error) {
	messages, err := c.convertToMessageContent(turns)
	if err != nil {
		return nil, err
	}

	options := []llms.CallOption{llms.WithMaxTokens(c.maxTokens)}
	if len(tools) > 0 {
		options = append(options, llms.WithTools(c.buildTools(tools)))
	}

	log.Printf("[INFO] Calling %s model %s with %d messages and %d tools", c.provider, c.model, len(messages), len(tools))

	resp, err := c.llm.GenerateContent(ctx, messages, options...)
	if err != nil {
		log.Printf("[ERROR] Failed to call %s API: %v", c.provider, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrModelUnavailable, c.provider, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s returned no choices", ErrModelProtocol, c.provider)
	}
	choice := resp.Choices[0]

	rawCalls := choice.ToolCalls
	if len(rawCalls) == 0 && choice.FuncCall != nil {
		rawCalls = []llms.ToolCall{{Type: "function", FunctionCall: choice.FuncCall}}
	}

	calls := make([]models.ToolCall, 0, len(rawCalls))
	for i, tc := range rawCalls {
		if tc.FunctionCall == nil {
			return nil, fmt.Errorf("%w: tool call %d has no function", ErrModelProtocol, i)
		}
		arguments, err := parseToolArguments(tc.FunctionCall.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%w: arguments for %s: %v", ErrModelProtocol, tc.FunctionCall.Name, err)
		}
		calls = append(calls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: arguments,
		})
	}

	log.Printf("[INFO] %s response: stop_reason=%s, %d chars, tool calls: %v", c.provider, choice.StopReason,
		len(choice.Content), lo.Map(calls, func(call models.ToolCall, _ int) string { return call.Name }))

	mapped, err := mapToolCalls(calls, tools)
	if err != nil {
		return nil, err
	}

	return &Completion{
		Text:       choice.Content,
		ToolCalls:  mapped,
		StopReason: choice.StopReason,
		Model:      c.model,
	}, nil
}

func parseToolArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var arguments map[string]any
	if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
		return nil, fmt.Errorf("not a JSON object: %v", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

func (c *LangchainClient) convertToMessageContent(turns []models.AgentMessage) ([]llms.MessageContent, error) {
	var messages []llms.MessageContent

	for _, msg := range turns {
		switch msg.Role {
		case models.RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case models.RoleUser:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case models.RoleAssistant:
			var parts []llms.ContentPart
			if msg.Content != "" {
				parts = append(parts, llms.TextContent{Text: msg.Content})
			}
			for _, toolCall := range msg.ToolCalls {
				arguments, err := json.Marshal(toolCall.Arguments)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal arguments for %s: %w", toolCall.Name, err)
				}
				parts = append(parts, llms.ToolCall{
					ID:   toolCall.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      toolCall.Name,
						Arguments: string(arguments),
					},
				})
			}
			messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts})
		case models.RoleTool:
			for _, result := range msg.ToolResults {
				messages = append(messages, llms.MessageContent{
					Role: llms.ChatMessageTypeTool,
					Parts: []llms.ContentPart{llms.ToolCallResponse{
						ToolCallID: result.ToolCallID,
						Name:       result.Name,
						Content:    result.Content,
					}},
				})
			}
		}
	}

	return messages, nil
}

func (c *LangchainClient) buildTools(tools []ToolDescriptor) []llms.Tool {
	return lo.Map(tools, func(tool ToolDescriptor, _ int) llms.Tool {
		parameters := map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"required":             []string{},
			"additionalProperties": false,
		}
		if tool.Schema != nil {
			if tool.Schema.Properties != nil {
				parameters["properties"] = tool.Schema.Properties
			}
			if len(tool.Schema.Required) > 0 {
				parameters["required"] = tool.Schema.Required
			}
		}
		return llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		}
	})
}
