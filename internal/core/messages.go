package core

import (
	"context"
	"encoding/json"
)

// Message roles. Conversation state is an ordered, append-only sequence of
// these; the system message, when present, is always the first element.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one element of the conversation state.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a tool-invocation request emitted by the assistant.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition declares a callable capability to the chat model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the arguments
}

// ChatModel produces either a text reply or tool-invocation requests for an
// ordered message sequence.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error)
}

// Embedder maps text to fixed-dimensionality vectors.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ToolRunner executes declared tools on behalf of the agent.
type ToolRunner interface {
	Definitions() []ToolDefinition
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}
