package tui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/agent"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/store"
)

// Chat is the terminal REPL: one active thread at a time, slash commands for
// thread management, a numbered tool execution log per turn. No TUI library;
// this is the direct-access console.
type Chat struct {
	Loop  *agent.Loop
	Store store.MessageStore

	threadID  string
	toolsUsed int
	listed    []store.Thread
}

// Run reads lines from stdin until /quit or EOF. A plain line goes to the
// agent; lines starting with "/" are commands (/new, /threads, /switch <n>).
func (c *Chat) Run(ctx context.Context) error {
	scan := bufio.NewScanner(os.Stdin)
	fmt.Println("Trip Planner — chat (Enter to send, /new /threads /switch <n> /quit)")
	fmt.Println()
	c.printThreads(ctx)
	c.wireHooks()

	for {
		fmt.Print("You: ")
		if !scan.Scan() {
			return scan.Err()
		}
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if c.command(ctx, line) {
				return nil
			}
			continue
		}

		if err := c.ensureThread(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		c.toolsUsed = 0
		reply, err := c.Loop.RunOneTurn(ctx, c.threadID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if c.toolsUsed > 0 {
			fmt.Printf("Used %d tool(s)\n", c.toolsUsed)
		}
		fmt.Println("Planner:", reply)
		fmt.Println()
	}
}

// wireHooks routes loop progress into the console: intermediate assistant
// text right away, one numbered line per tool call, one result line each.
func (c *Chat) wireHooks() {
	c.Loop.OnStatus = func(text string) {
		fmt.Println("Planner:", text)
	}
	c.Loop.OnToolCall = func(name, args string) {
		c.toolsUsed++
		if params := formatParams(args); params != "" {
			fmt.Printf("  [%d] %s %s\n", c.toolsUsed, name, params)
		} else {
			fmt.Printf("  [%d] %s\n", c.toolsUsed, name)
		}
	}
	c.Loop.OnToolResult = func(name, result string) {
		fmt.Printf("      -> %s\n", summarizeResult(result))
	}
}

// command handles a slash command; returns true when the REPL should exit.
func (c *Chat) command(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/new":
		c.threadID = ""
		fmt.Println("Started a new conversation.")
		fmt.Println()
	case "/threads":
		c.printThreads(ctx)
	case "/switch":
		if len(fields) < 2 {
			fmt.Println("Usage: /switch <n>")
			break
		}
		c.switchThread(ctx, fields[1])
	default:
		fmt.Println("Commands: /new, /threads, /switch <n>, /quit")
	}
	return false
}

// ensureThread creates the active thread on the first message, titled from
// that message.
func (c *Chat) ensureThread(ctx context.Context, firstMessage string) error {
	if c.threadID != "" {
		return nil
	}
	id := uuid.NewString()
	if err := c.Store.CreateThread(ctx, id, clipTitle(firstMessage, 48)); err != nil {
		return fmt.Errorf("create thread: %w", err)
	}
	c.threadID = id
	return nil
}

// printThreads lists stored threads, most recently active first, and keeps
// the ordering for /switch.
func (c *Chat) printThreads(ctx context.Context) {
	threads, err := c.Store.ListThreads(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: list threads: %v\n", err)
		return
	}
	c.listed = threads
	if len(threads) == 0 {
		fmt.Println("No saved conversations yet.")
		fmt.Println()
		return
	}
	fmt.Println("Conversations:")
	for i, th := range threads {
		marker := " "
		if th.ID == c.threadID {
			marker = "*"
		}
		fmt.Printf(" %s %d. %s\n", marker, i+1, th.Title)
	}
	fmt.Println("Use /switch <n> to resume one.")
	fmt.Println()
}

func (c *Chat) switchThread(ctx context.Context, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(c.listed) {
		fmt.Println("Run /threads first, then /switch <n>.")
		return
	}
	th := c.listed[n-1]
	c.threadID = th.ID
	fmt.Printf("Resumed %q\n", th.Title)
	c.replay(ctx, th.ID)
}

// replay prints a resumed thread's visible history. Tool results and empty
// assistant turns stay hidden, as in the live view.
func (c *Chat) replay(ctx context.Context, threadID string) {
	msgs, err := c.Store.ThreadMessages(ctx, threadID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load history: %v\n", err)
		return
	}
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case "user":
			fmt.Println("You:", m.Content)
		case "assistant":
			fmt.Println("Planner:", m.Content)
		}
	}
	fmt.Println()
}

// clipTitle derives a thread title from the first user message.
func clipTitle(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes-3]) + "..."
}

// formatParams renders tool-call arguments as a compact k=v list.
func formatParams(argsJSON string) string {
	parsed := gjson.Parse(argsJSON)
	if !parsed.IsObject() {
		return ""
	}
	var parts []string
	parsed.ForEach(func(key, value gjson.Result) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", key.String(), value.Value()))
		return true
	})
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// summarizeResult picks the one-line display for a tool result payload.
func summarizeResult(result string) string {
	parsed := gjson.Parse(result)
	if e := parsed.Get("error"); e.Exists() {
		return "error: " + e.String()
	}
	if s := parsed.Get("summary"); s.Exists() {
		return s.String()
	}
	if n := parsed.Get("count"); n.Exists() {
		return fmt.Sprintf("%d results", n.Int())
	}
	if len([]rune(result)) < 200 {
		return result
	}
	return "done"
}
