package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// AttractionsArgs are the search_attractions arguments.
type AttractionsArgs struct {
	Location string `json:"location" jsonschema_description:"City or location name (e.g. Paris, France)."`
	Category string `json:"category,omitempty" jsonschema_description:"Type of place: tourist_attraction (default), museum, park, or restaurant."`
}

// Attraction is one normalized place.
type Attraction struct {
	Name        string  `json:"name"`
	Rating      float64 `json:"rating,omitempty"`
	Reviews     int64   `json:"reviews,omitempty"`
	Type        string  `json:"type,omitempty"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
}

// AttractionsResult is the search_attractions payload.
type AttractionsResult struct {
	Attractions []Attraction `json:"attractions"`
	Count       int          `json:"count"`
	Summary     string       `json:"summary"`
}

var SearchAttractionsDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "search_attractions",
		Description: "Find tourist attractions, museums, parks, or restaurants in a location using Google Maps.",
		Parameters:  GenerateSchema[AttractionsArgs](),
	},
}

func (e *Executor) searchAttractions(ctx context.Context, argsJSON string) (string, error) {
	var args AttractionsArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("search_attractions", err)), nil
	}
	if args.Location == "" {
		return foldErr(core.NewInvalidArgument("search_attractions", errors.New("location is required"))), nil
	}
	if args.Category == "" {
		args.Category = "tourist_attraction"
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "search_attractions", string(normArgs), func() (string, error) {
		params := map[string]string{
			"q":    fmt.Sprintf("%s in %s", args.Category, args.Location),
			"type": "search",
			"hl":   "en",
		}

		res, err := e.Serp.Search(ctx, "google_maps", params)
		if err != nil {
			return "", err
		}

		places := lo.Map(lo.Slice(res.Get("local_results").Array(), 0, 15),
			func(p gjson.Result, _ int) Attraction {
				return Attraction{
					Name:        p.Get("title").String(),
					Rating:      p.Get("rating").Float(),
					Reviews:     p.Get("reviews").Int(),
					Type:        p.Get("type").String(),
					Address:     p.Get("address").String(),
					Description: clip(p.Get("description").String(), 200),
				}
			})

		out := AttractionsResult{Attractions: places, Count: len(places)}
		if len(places) == 0 {
			out.Summary = fmt.Sprintf("No places found for %s in %s", args.Category, args.Location)
		} else {
			out.Summary = fmt.Sprintf("%d places for %s in %s", len(places), args.Category, args.Location)
		}

		log.Printf("[TOOLS] Found %d attractions in %s", out.Count, args.Location)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("search_attractions", err)), nil
	}
	return payload, nil
}
