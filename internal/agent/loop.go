package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/store"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/tools"
)

// DefaultMaxToolRounds bounds model calls per user turn when the Loop has no
// explicit limit configured.
const DefaultMaxToolRounds = 10

// turnState tracks where a user turn sits in the orchestration cycle.
type turnState int

const (
	stateAwaitingModel  turnState = iota // waiting on a chat completion
	stateExecutingTools                  // running the model's requested tool calls
	stateDone                            // final assistant text produced
)

// Loop drives one conversation turn: system prompt + thread history + the new
// user message go to the model with the tool definitions; requested tools are
// executed and their results appended until the model answers without tool
// calls. Every message is persisted as it is produced, so a failed turn still
// leaves valid history behind.
type Loop struct {
	Store         store.MessageStore
	Client        core.LLMClient
	Executor      core.ToolExecutor
	Model         string
	MaxToolRounds int

	// Presentation hooks; nil hooks are skipped. OnStatus receives assistant
	// text that arrived alongside tool calls (shown while tools still run).
	// OnToolCall and OnToolResult bracket each tool execution.
	OnStatus     func(text string)
	OnToolCall   func(name, argsJSON string)
	OnToolResult func(name, result string)
}

// RunOneTurn appends the user message, runs the model/tool cycle until the
// model produces a final answer, and returns that answer. Tool failures are
// folded into tool results and never end the turn; model transport errors and
// store failures do, as does exceeding the tool-round limit.
func (l *Loop) RunOneTurn(ctx context.Context, threadID, userText string) (string, error) {
	maxRounds := l.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	rows, err := l.Store.ThreadMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("%w: load thread %s: %v", core.ErrStorage, threadID, err)
	}
	history := historyMessages(rows)

	// System prompt + history + new user message; the prompt is skipped when
	// the thread already opens with one.
	messages := make([]core.Message, 0, len(history)+2)
	if len(history) == 0 || history[0].Role != "system" {
		messages = append(messages, core.Message{Role: "system", Content: SystemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, core.Message{Role: "user", Content: userText})

	if _, err := l.Store.AppendMessage(ctx, threadID, "user", userText, "", "", ""); err != nil {
		return "", fmt.Errorf("%w: append user message: %v", core.ErrStorage, err)
	}

	toolDefs := tools.Defs()
	rounds := 0
	var content string
	var toolCalls []core.ToolCall

	state := stateAwaitingModel
	for state != stateDone {
		switch state {
		case stateAwaitingModel:
			rounds++
			if rounds > maxRounds {
				log.Printf("[AGENT] Tool round limit (%d) reached for thread %s", maxRounds, threadID)
				return "", fmt.Errorf("%w: %d rounds", core.ErrLoopBound, maxRounds)
			}
			content, toolCalls, err = l.Client.ChatCompletionWithTools(ctx, messages, toolDefs)
			if err != nil {
				log.Printf("[AGENT] Model call failed: %v", err)
				return "", err
			}
			log.Printf("[AGENT] Model returned: content_len=%d, toolCalls=%d, round=%d", len(content), len(toolCalls), rounds)
			if len(toolCalls) == 0 {
				state = stateDone
			} else {
				state = stateExecutingTools
			}

		case stateExecutingTools:
			// Text alongside tool calls is a progress note for the user.
			if strings.TrimSpace(content) != "" && l.OnStatus != nil {
				l.OnStatus(content)
			}

			toolCallsJSON, _ := json.Marshal(toolCalls)
			if _, err := l.Store.AppendMessage(ctx, threadID, "assistant", content, l.Model, string(toolCallsJSON), ""); err != nil {
				return "", fmt.Errorf("%w: append assistant message: %v", core.ErrStorage, err)
			}
			messages = append(messages, core.Message{Role: "assistant", Content: content, ToolCalls: toolCalls})

			names := make([]string, len(toolCalls))
			for i, tc := range toolCalls {
				names[i] = tc.Function.Name
			}
			log.Printf("[AGENT] Executing %d tool calls: %s", len(toolCalls), strings.Join(names, ", "))

			for _, tc := range toolCalls {
				if l.OnToolCall != nil {
					l.OnToolCall(tc.Function.Name, tc.Function.Arguments)
				}
				result, execErr := l.Executor.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
				if execErr != nil {
					if ctx.Err() != nil {
						return "", ctx.Err()
					}
					b, _ := json.Marshal(map[string]string{"error": execErr.Error()})
					result = string(b)
				}
				messages = append(messages, core.Message{Role: "tool", Content: result, ToolCallID: tc.ID})
				if _, err := l.Store.AppendMessage(ctx, threadID, "tool", result, "", "", tc.ID); err != nil {
					return "", fmt.Errorf("%w: append tool message: %v", core.ErrStorage, err)
				}
				if l.OnToolResult != nil {
					l.OnToolResult(tc.Function.Name, result)
				}
			}
			state = stateAwaitingModel
		}
	}

	if _, err := l.Store.AppendMessage(ctx, threadID, "assistant", content, l.Model, "", ""); err != nil {
		return "", fmt.Errorf("%w: append assistant message: %v", core.ErrStorage, err)
	}
	return content, nil
}

// historyMessages converts a thread's persisted log back into wire messages,
// restoring tool-call requests from their stored JSON.
func historyMessages(rows []store.Message) []core.Message {
	var messages []core.Message
	for _, m := range rows {
		msg := core.Message{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		if m.ToolCalls != "" {
			var tcs []core.ToolCall
			if err := json.Unmarshal([]byte(m.ToolCalls), &tcs); err == nil {
				msg.ToolCalls = tcs
			}
		}
		messages = append(messages, msg)
	}
	return messages
}
