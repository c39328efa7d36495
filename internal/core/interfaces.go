package core

import (
	"context"
)

// LLMClient abstracts the chat-completions API client (OpenAI, OpenRouter, local).
type LLMClient interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
	ChatCompletionWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (string, []ToolCall, error)
}

// ToolExecutor abstracts tool execution. The returned string is the tool-result
// payload fed back to the model; recoverable tool failures are folded into that
// payload rather than returned as a Go error.
type ToolExecutor interface {
	Execute(ctx context.Context, name, argsJSON string) (string, error)
}
