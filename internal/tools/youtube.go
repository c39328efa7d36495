package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// YouTubeArgs are the search_youtube_vlogs arguments.
type YouTubeArgs struct {
	Query      string `json:"query" jsonschema_description:"Search query (e.g. Paris travel guide 2025)."`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of results to return (default 5)."`
}

// Video is one normalized video result.
type Video struct {
	Title     string `json:"title"`
	Channel   string `json:"channel,omitempty"`
	Views     int64  `json:"views,omitempty"`
	Published string `json:"published,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Link      string `json:"link,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// YouTubeResult is the search_youtube_vlogs payload.
type YouTubeResult struct {
	Videos  []Video `json:"videos"`
	Count   int     `json:"count"`
	Summary string  `json:"summary"`
}

var SearchYouTubeVlogsDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "search_youtube_vlogs",
		Description: "Search for travel vlogs and guides on YouTube.",
		Parameters:  GenerateSchema[YouTubeArgs](),
	},
}

func (e *Executor) searchYouTubeVlogs(ctx context.Context, argsJSON string) (string, error) {
	var args YouTubeArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("search_youtube_vlogs", err)), nil
	}
	if args.Query == "" {
		return foldErr(core.NewInvalidArgument("search_youtube_vlogs", errors.New("query is required"))), nil
	}
	if args.MaxResults <= 0 {
		args.MaxResults = 5
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "search_youtube_vlogs", string(normArgs), func() (string, error) {
		params := map[string]string{
			"search_query": args.Query,
			"hl":           "en",
		}

		res, err := e.Serp.Search(ctx, "youtube", params)
		if err != nil {
			return "", err
		}

		videos := lo.Map(lo.Slice(res.Get("video_results").Array(), 0, args.MaxResults),
			func(v gjson.Result, _ int) Video {
				return Video{
					Title:     v.Get("title").String(),
					Channel:   v.Get("channel.name").String(),
					Views:     v.Get("views").Int(),
					Published: v.Get("published_date").String(),
					Duration:  v.Get("length").String(),
					Link:      v.Get("link").String(),
					Thumbnail: v.Get("thumbnail.static").String(),
				}
			})

		out := YouTubeResult{Videos: videos, Count: len(videos)}
		if len(videos) == 0 {
			out.Summary = fmt.Sprintf("No videos found for %q", args.Query)
		} else {
			top := lo.MaxBy(videos, func(a, b Video) bool { return a.Views > b.Views })
			out.Summary = fmt.Sprintf("%d videos for %q", len(videos), args.Query)
			if top.Views > 0 {
				out.Summary += fmt.Sprintf(" (most watched: %s, %s views)", top.Title, humanize.Comma(top.Views))
			}
		}

		log.Printf("[TOOLS] Found %d YouTube videos for %q", out.Count, args.Query)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("search_youtube_vlogs", err)), nil
	}
	return payload, nil
}
