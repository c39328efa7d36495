package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/core"
)

// HotelsArgs are the search_hotels arguments.
type HotelsArgs struct {
	Location     string `json:"location" jsonschema_description:"City or location name (e.g. Paris, France)."`
	CheckInDate  string `json:"check_in_date" jsonschema_description:"Check-in date in YYYY-MM-DD format."`
	CheckOutDate string `json:"check_out_date" jsonschema_description:"Check-out date in YYYY-MM-DD format."`
	Adults       int    `json:"adults,omitempty" jsonschema_description:"Number of adult guests (default 2)."`
}

// Hotel is one normalized property.
type Hotel struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price,omitempty"` // nightly rate, USD
	Rating      float64  `json:"rating,omitempty"`
	Reviews     int64    `json:"reviews,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Link        string   `json:"link,omitempty"`
	Description string   `json:"description,omitempty"`
}

// HotelsResult is the search_hotels payload.
type HotelsResult struct {
	Hotels  []Hotel `json:"hotels"`
	Count   int     `json:"count"`
	Summary string  `json:"summary"`
}

var SearchHotelsDefinition = core.ToolDefinition{
	Type: "function",
	Function: core.FunctionSpec{
		Name:        "search_hotels",
		Description: "Search for hotel accommodations in a location using Google Hotels, ranked by price/rating value.",
		Parameters:  GenerateSchema[HotelsArgs](),
	},
}

// hotelValueScore ranks a property: 60% weight on price (normalized against
// a $500 ceiling), 40% on rating out of 5. Unpriced properties sink to 0.
func hotelValueScore(p gjson.Result) float64 {
	price := p.Get("rate_per_night.extracted_lowest").Float()
	if price == 0 {
		return 0
	}
	normPrice := math.Min(price/500, 1.0)
	normRating := p.Get("overall_rating").Float() / 5.0
	return (1-normPrice)*0.6 + normRating*0.4
}

func (e *Executor) searchHotels(ctx context.Context, argsJSON string) (string, error) {
	var args HotelsArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return foldErr(core.NewInvalidArgument("search_hotels", err)), nil
	}
	if args.Location == "" {
		return foldErr(core.NewInvalidArgument("search_hotels", errors.New("location is required"))), nil
	}
	if !validDate(args.CheckInDate) {
		return foldErr(core.NewInvalidArgument("search_hotels", fmt.Errorf("check_in_date %q is not YYYY-MM-DD", args.CheckInDate))), nil
	}
	if !validDate(args.CheckOutDate) {
		return foldErr(core.NewInvalidArgument("search_hotels", fmt.Errorf("check_out_date %q is not YYYY-MM-DD", args.CheckOutDate))), nil
	}
	if args.Adults <= 0 {
		args.Adults = 2
	}

	normArgs, _ := json.Marshal(args)
	payload, err := e.cachedFetch(ctx, "search_hotels", string(normArgs), func() (string, error) {
		params := map[string]string{
			"q":              args.Location,
			"check_in_date":  args.CheckInDate,
			"check_out_date": args.CheckOutDate,
			"adults":         strconv.Itoa(args.Adults),
			"currency":       "USD",
			"gl":             "us",
			"hl":             "en",
			"sort_by":        "3", // lowest price
		}

		res, err := e.Serp.Search(ctx, "google_hotels", params)
		if err != nil {
			return "", err
		}

		props := res.Get("properties").Array()
		sort.SliceStable(props, func(i, j int) bool {
			return hotelValueScore(props[i]) > hotelValueScore(props[j])
		})

		hotels := lo.Map(lo.Slice(props, 0, 10), func(p gjson.Result, _ int) Hotel {
			amenities := lo.Map(lo.Slice(p.Get("amenities").Array(), 0, 5),
				func(a gjson.Result, _ int) string { return a.String() })
			return Hotel{
				Name:        p.Get("name").String(),
				Price:       p.Get("rate_per_night.extracted_lowest").Float(),
				Rating:      p.Get("overall_rating").Float(),
				Reviews:     p.Get("reviews").Int(),
				Amenities:   amenities,
				Link:        p.Get("link").String(),
				Description: clip(p.Get("description").String(), 200),
			}
		})

		out := HotelsResult{Hotels: hotels, Count: len(hotels)}
		out.Summary = fmt.Sprintf("No hotels found in %s", args.Location)
		if len(hotels) > 0 {
			out.Summary = fmt.Sprintf("%d hotels in %s", len(hotels), args.Location)
			priced := lo.Filter(hotels, func(h Hotel, _ int) bool { return h.Price > 0 })
			if len(priced) > 0 {
				cheapest := lo.MinBy(priced, func(a, b Hotel) bool { return a.Price < b.Price })
				out.Summary += fmt.Sprintf(", from $%.0f/night", cheapest.Price)
			}
		}

		log.Printf("[TOOLS] Found %d hotels in %s", out.Count, args.Location)
		b, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		return foldErr(core.NewUpstreamError("search_hotels", err)), nil
	}
	return payload, nil
}
