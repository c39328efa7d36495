package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// FlightsArgs are the search_flights arguments.
type FlightsArgs struct {
	Departure    string `json:"departure" jsonschema_description:"Departure airport code or city name (e.g. JFK or New York)."`
	Arrival      string `json:"arrival" jsonschema_description:"Arrival airport code or city name (e.g. CDG or Paris)."`
	OutboundDate string `json:"outbound_date" jsonschema_description:"Departure date in YYYY-MM-DD format."`
	ReturnDate   string `json:"return_date,omitempty" jsonschema_description:"Return date in YYYY-MM-DD format (optional, makes it a round trip)."`
	Adults       int    `json:"adults,omitempty" jsonschema_description:"Number of adult passengers (default 1)."`
}

// Flight is one normalized flight option.
type Flight struct {
	Price         int64  `json:"price,omitempty"`
	Airline       string `json:"airline"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	Duration      int64  `json:"duration,omitempty"` // total minutes
	Stops         int    `json:"stops"`
	BookingToken  string `json:"booking_token,omitempty"`
}

// FlightsResult is the search_flights payload.
type FlightsResult struct {
	Flights []Flight `json:"flights"`
	Count   int      `json:"count"`
	Summary string   `json:"summary"`
}

var SearchFlightsDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "search_flights",
		Description: "Search for flight options between two cities using Google Flights. Supports one-way and round trips.",
		Parameters:  GenerateSchema[FlightsArgs](),
	},
}

func (e *Executor) searchFlights(ctx context.Context, argsJSON string) (string, error) {
	var args FlightsArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("search_flights", err)), nil
	}
	if args.Departure == "" || args.Arrival == "" {
		return foldErr(core.NewInvalidArgument("search_flights", errors.New("departure and arrival are required"))), nil
	}
	if !validDate(args.OutboundDate) {
		return foldErr(core.NewInvalidArgument("search_flights", fmt.Errorf("outbound_date %q is not YYYY-MM-DD", args.OutboundDate))), nil
	}
	if args.ReturnDate != "" && !validDate(args.ReturnDate) {
		return foldErr(core.NewInvalidArgument("search_flights", fmt.Errorf("return_date %q is not YYYY-MM-DD", args.ReturnDate))), nil
	}
	if args.Adults <= 0 {
		args.Adults = 1
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "search_flights", string(normArgs), func() (string, error) {
		params := map[string]string{
			"departure_id":  args.Departure,
			"arrival_id":    args.Arrival,
			"outbound_date": args.OutboundDate,
			"adults":        strconv.Itoa(args.Adults),
			"currency":      "USD",
			"hl":            "en",
		}
		if args.ReturnDate != "" {
			params["return_date"] = args.ReturnDate
			params["type"] = "1" // round trip
		} else {
			params["type"] = "2" // one way
		}

		res, err := e.Serp.Search(ctx, "google_flights", params)
		if err != nil {
			return "", err
		}

		all := res.Get("best_flights").Array()
		all = append(all, res.Get("other_flights").Array()...)
		flights := lo.Map(lo.Slice(all, 0, 10), func(f gjson.Result, _ int) Flight {
			legs := f.Get("flights").Array()
			airlines := lo.Map(legs, func(l gjson.Result, _ int) string { return l.Get("airline").String() })
			fl := Flight{
				Price:        f.Get("price").Int(),
				Airline:      strings.Join(airlines, ", "),
				Duration:     f.Get("total_duration").Int(),
				BookingToken: f.Get("booking_token").String(),
			}
			if len(legs) > 0 {
				fl.Stops = len(legs) - 1
				fl.DepartureTime = legs[0].Get("departure_airport.time").String()
				fl.ArrivalTime = legs[len(legs)-1].Get("arrival_airport.time").String()
			}
			return fl
		})

		out := FlightsResult{Flights: flights, Count: len(flights)}
		out.Summary = fmt.Sprintf("No flights found from %s to %s", args.Departure, args.Arrival)
		if len(flights) > 0 {
			out.Summary = fmt.Sprintf("%d flight options from %s to %s", len(flights), args.Departure, args.Arrival)
			priced := lo.Filter(flights, func(f Flight, _ int) bool { return f.Price > 0 })
			if len(priced) > 0 {
				cheapest := lo.MinBy(priced, func(a, b Flight) bool { return a.Price < b.Price })
				out.Summary += fmt.Sprintf(", from $%d", cheapest.Price)
			}
		}

		log.Printf("[TOOLS] Found %d flights from %s to %s", out.Count, args.Departure, args.Arrival)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("search_flights", err)), nil
	}
	return payload, nil
}
