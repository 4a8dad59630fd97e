package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// AgentMessage is one turn of a dispatch run. Assistant turns may carry
// tool calls; tool turns carry exactly one result.
type AgentMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name,omitempty"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

func NewSystemMessage(content string) AgentMessage {
	return AgentMessage{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) AgentMessage {
	return AgentMessage{Role: RoleUser, Content: content}
}

func NewToolMessage(result ToolResult) AgentMessage {
	return AgentMessage{Role: RoleTool, ToolResults: []ToolResult{result}}
}
