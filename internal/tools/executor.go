package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/cache"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/openweather"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/serpapi"
)

// Executor runs a trip-planner tool by name.
type Executor struct {
	Serp    *serpapi.Client
	Weather *openweather.Client
	Cache   *cache.Cache
}

// Execute runs the tool by name with the given JSON arguments; returns JSON result.
// Tool failures are folded into the result payload as {"error": ...} so the
// conversation loop keeps going; only context cancellation aborts.
func (e *Executor) Execute(ctx context.Context, name, argsJSON string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch name {
	case "search_flights":
		return e.searchFlights(ctx, argsJSON)
	case "search_hotels":
		return e.searchHotels(ctx, argsJSON)
	case "search_weather":
		return e.searchWeather(ctx, argsJSON)
	case "search_attractions":
		return e.searchAttractions(ctx, argsJSON)
	case "search_youtube_vlogs":
		return e.searchYouTubeVlogs(ctx, argsJSON)
	case "google_search":
		return e.googleSearch(ctx, argsJSON)
	case "calculator":
		return CalculatorTool(argsJSON)
	default:
		return foldErr(core.NewInvalidArgument(name, errors.New("unknown tool"))), nil
	}
}

// cachedFetch returns the cached payload for (tool, args) or runs fetch and
// stores its result. Fetch errors are never cached, so the next identical
// call reaches the provider again.
func (e *Executor) cachedFetch(ctx context.Context, tool, argsJSON string, fetch func() (string, error)) (string, error) {
	if e.Cache != nil {
		if payload, ok := e.Cache.Get(ctx, tool, argsJSON); ok {
			log.Printf("[TOOLS] Cache hit: %s", tool)
			return payload, nil
		}
	}
	payload, err := fetch()
	if err != nil {
		return "", err
	}
	if e.Cache != nil {
		e.Cache.Put(ctx, tool, argsJSON, payload)
	}
	return payload, nil
}

// ErrJSON folds an error into a tool result payload.
func ErrJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

// foldErr logs a tool failure and folds it into the result payload.
func foldErr(err error) string {
	var te *core.ToolError
	if errors.As(err, &te) {
		log.Printf("[TOOLS] %s failed (%s): %v", te.Tool, te.Kind, te.Err)
	} else {
		log.Printf("[TOOLS] tool failed: %v", err)
	}
	return ErrJSON(err)
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// validDate reports whether s is a YYYY-MM-DD date.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
