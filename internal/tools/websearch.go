package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// SearchArgs are the google_search arguments.
type SearchArgs struct {
	Query string `json:"query" jsonschema_description:"Search query string."`
}

// SearchResult is the google_search payload: one AI-curated summary.
type SearchResult struct {
	Summary string `json:"summary"`
}

var GoogleSearchDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "google_search",
		Description: "Search the web via Google AI Mode and return an AI-curated summary of the results.",
		Parameters:  GenerateSchema[SearchArgs](),
	},
}

func (e *Executor) googleSearch(ctx context.Context, argsJSON string) (string, error) {
	var args SearchArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("google_search", err)), nil
	}
	if args.Query == "" {
		return foldErr(core.NewInvalidArgument("google_search", errors.New("query is required"))), nil
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "google_search", string(normArgs), func() (string, error) {
		res, err := e.Serp.Search(ctx, "google_ai_mode", map[string]string{
			"q":  args.Query,
			"hl": "en",
		})
		if err != nil {
			return "", err
		}

		// Stitch headings, paragraphs, and list items from the AI response
		// blocks into one readable summary.
		var parts []string
		for _, block := range res.Get("text_blocks").Array() {
			switch block.Get("type").String() {
			case "heading", "paragraph":
				if snippet := block.Get("snippet").String(); snippet != "" {
					parts = append(parts, snippet)
				}
			case "list":
				for _, item := range block.Get("list").Array() {
					text := item.Get("snippet").String()
					if text == "" {
						text = item.Get("title").String()
					}
					if text != "" {
						parts = append(parts, "• "+text)
					}
				}
			}
		}

		out := SearchResult{Summary: "No summary available"}
		if len(parts) > 0 {
			out.Summary = strings.Join(parts, "\n\n")
		}

		log.Printf("[TOOLS] Google search completed for %q", args.Query)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("google_search", err)), nil
	}
	return payload, nil
}
