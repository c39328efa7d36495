package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// WeatherArgs are the search_weather arguments.
type WeatherArgs struct {
	Location  string `json:"location" jsonschema_description:"City or location name (e.g. Paris, France)."`
	StartDate string `json:"start_date" jsonschema_description:"Start date in YYYY-MM-DD format."`
	EndDate   string `json:"end_date" jsonschema_description:"End date in YYYY-MM-DD format."`
}

// WeatherResult is the search_weather payload.
type WeatherResult struct {
	Weather string `json:"weather"`
	Summary string `json:"summary"`
}

var SearchWeatherDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "search_weather",
		Description: "Get the weather forecast for a location and date range as a human-readable report.",
		Parameters:  GenerateSchema[WeatherArgs](),
	},
}

func (e *Executor) searchWeather(ctx context.Context, argsJSON string) (string, error) {
	var args WeatherArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("search_weather", err)), nil
	}
	if args.Location == "" {
		return foldErr(core.NewInvalidArgument("search_weather", errors.New("location is required"))), nil
	}
	if !validDate(args.StartDate) {
		return foldErr(core.NewInvalidArgument("search_weather", fmt.Errorf("start_date %q is not YYYY-MM-DD", args.StartDate))), nil
	}
	if !validDate(args.EndDate) {
		return foldErr(core.NewInvalidArgument("search_weather", fmt.Errorf("end_date %q is not YYYY-MM-DD", args.EndDate))), nil
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "search_weather", string(normArgs), func() (string, error) {
		prompt := fmt.Sprintf("What's the weather forecast for %s from %s to %s?",
			args.Location, args.StartDate, args.EndDate)
		answer, err := e.Weather.Ask(ctx, prompt)
		if err != nil {
			return "", err
		}

		out := WeatherResult{
			Weather: answer,
			Summary: strings.ReplaceAll(clip(answer, 140), "\n", " "),
		}
		log.Printf("[TOOLS] Weather retrieved for %s", args.Location)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("search_weather", err)), nil
	}
	return payload, nil
}
