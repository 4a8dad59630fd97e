package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := anthropic.NewClient(opts...)

	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: 4096,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, turns []models.AgentMessage, tools []ToolDescriptor) (*Completion, error) {
	system, messages := c.convertToAnthropicMessages(turns)
	toolSpecs := c.buildAnthropicToolSpecs(tools)

	c.logAnthropicRequest(messages, toolSpecs)

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
		Tools:     toolSpecs,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to call Anthropic API: %v", err)
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: anthropic returned status %d: %v", ErrModelUnavailable, apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("%w: failed to call Anthropic API: %w", ErrModelUnavailable, err)
	}

	c.logAnthropicResponse(response)

	completion := &Completion{
		StopReason: string(response.StopReason),
		Model:      string(response.Model),
	}

	var text strings.Builder
	var calls []models.ToolCall
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		case anthropic.ToolUseBlock:
			inputJSON, err := json.Marshal(block.Input)
			if err != nil {
				return nil, fmt.Errorf("%w: unreadable input for tool %s: %v", ErrModelProtocol, block.Name, err)
			}
			var arguments map[string]any
			if err := json.Unmarshal(inputJSON, &arguments); err != nil {
				return nil, fmt.Errorf("%w: input for tool %s is not an object: %v", ErrModelProtocol, block.Name, err)
			}
			calls = append(calls, models.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: arguments,
			})
		}
	}

	completion.Text = text.String()
	completion.ToolCalls, err = mapToolCalls(calls, tools)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// convertToAnthropicMessages splits out system turns and folds consecutive
// tool turns into one user message, as the Messages API expects all results
// for an assistant turn together.
func (c *AnthropicClient) convertToAnthropicMessages(turns []models.AgentMessage) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam
	var pendingResults []anthropic.ContentBlockParamUnion

	flushResults := func() {
		if len(pendingResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, msg := range turns {
		if msg.Role != models.RoleTool {
			flushResults()
		}

		switch msg.Role {
		case models.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case models.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case models.RoleAssistant:
			contentBlocks := []anthropic.ContentBlockParamUnion{}
			if msg.Content != "" {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: msg.Content},
				})
			}
			for _, toolCall := range msg.ToolCalls {
				contentBlocks = append(contentBlocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    toolCall.ID,
						Name:  toolCall.Name,
						Input: toolCall.Arguments,
					},
				})
			}
			messages = append(messages, anthropic.NewAssistantMessage(contentBlocks...))
		case models.RoleTool:
			for _, result := range msg.ToolResults {
				block := &anthropic.ToolResultBlockParam{
					ToolUseID: result.ToolCallID,
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: result.Content}},
					},
				}
				if result.IsError {
					block.IsError = anthropic.Bool(true)
				}
				pendingResults = append(pendingResults, anthropic.ContentBlockParamUnion{OfToolResult: block})
			}
		}
	}
	flushResults()

	return system, messages
}

func (c *AnthropicClient) buildAnthropicToolSpecs(tools []ToolDescriptor) []anthropic.ToolUnionParam {
	var toolSpecs []anthropic.ToolUnionParam

	for _, tool := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if tool.Schema != nil {
			schema.Properties = tool.Schema.Properties
			schema.Required = tool.Schema.Required
		}
		toolSpecs = append(toolSpecs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: schema,
			},
		})
	}

	return toolSpecs
}

func (c *AnthropicClient) logAnthropicRequest(messages []anthropic.MessageParam, tools []anthropic.ToolUnionParam) {
	log.Printf("[INFO] ========== Anthropic Request ==========")
	log.Printf("[INFO] Model: %s, Messages: %d, Tools: %d", c.model, len(messages), len(tools))
	for i, msg := range messages {
		log.Printf("[INFO]   [%d] Role: %s, Blocks: %d", i, msg.Role, len(msg.Content))
	}
	log.Printf("[INFO] ========================================")
}

func (c *AnthropicClient) logAnthropicResponse(response *anthropic.Message) {
	log.Printf("[INFO] ========== Anthropic Response ==========")
	log.Printf("[INFO] Model: %s, StopReason: %s", response.Model, response.StopReason)

	toolCallCount := 0
	for i, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			log.Printf("[INFO]   [%d] Text: %d chars", i, len(block.Text))
		case anthropic.ToolUseBlock:
			toolCallCount++
			log.Printf("[INFO]   [%d] Tool Use: ID=%s, Name=%s", i, block.ID, block.Name)
		}
	}
	log.Printf("[INFO] Total tool calls: %d", toolCallCount)
	log.Printf("[INFO] =========================================")
}
