package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/cache"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/openweather"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/serpapi"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/store"
)

const flightsFixture = `{
	"best_flights": [
		{
			"flights": [
				{"departure_airport": {"name": "John F. Kennedy", "time": "2025-06-01 08:15"},
				 "arrival_airport": {"name": "Humberto Delgado", "time": "2025-06-01 20:05"},
				 "airline": "TAP Air Portugal"}
			],
			"total_duration": 410,
			"price": 520,
			"booking_token": "tok_best"
		}
	],
	"other_flights": [
		{
			"flights": [
				{"departure_airport": {"time": "2025-06-01 10:00"}, "arrival_airport": {"time": "2025-06-01 16:20"}, "airline": "Iberia"},
				{"departure_airport": {"time": "2025-06-01 18:00"}, "arrival_airport": {"time": "2025-06-01 23:45"}, "airline": "Iberia"}
			],
			"total_duration": 825,
			"price": 430,
			"booking_token": "tok_other"
		}
	]
}`

const hotelsFixture = `{
	"properties": [
		{"name": "Pricey Palace", "rate_per_night": {"extracted_lowest": 400}, "overall_rating": 5.0,
		 "reviews": 1200, "amenities": ["Pool"], "link": "https://example.com/palace", "description": "Luxury."},
		{"name": "Good Value Inn", "rate_per_night": {"extracted_lowest": 100}, "overall_rating": 4.0,
		 "reviews": 800, "amenities": ["Wi-Fi", "Breakfast", "Gym", "Pool", "Bar", "Spa", "Parking"],
		 "link": "https://example.com/inn", "description": "Cozy."},
		{"name": "No Price Hostel", "overall_rating": 4.8, "reviews": 50}
	]
}`

func newTestExecutor(t *testing.T, serpURL, weatherURL string) *Executor {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	serp := serpapi.NewClient("test-key")
	if serpURL != "" {
		serp.BaseURL = serpURL
	}
	weather := openweather.NewClient("test-key")
	if weatherURL != "" {
		weather.BaseURL = weatherURL
	}
	return &Executor{
		Serp:    serp,
		Weather: weather,
		Cache:   cache.New(db, 6*time.Hour),
	}
}

func TestSearchFlightsNormalizes(t *testing.T) {
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(flightsFixture))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "search_flights",
		`{"departure":"JFK","arrival":"LIS","outbound_date":"2025-06-01"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var res FlightsResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Count != 2 || len(res.Flights) != 2 {
		t.Fatalf("Expected 2 flights, got count=%d len=%d", res.Count, len(res.Flights))
	}

	direct := res.Flights[0]
	if direct.Price != 520 || direct.Airline != "TAP Air Portugal" || direct.Stops != 0 {
		t.Errorf("Direct flight not normalized: %+v", direct)
	}
	if direct.DepartureTime != "2025-06-01 08:15" || direct.ArrivalTime != "2025-06-01 20:05" {
		t.Errorf("Direct flight times wrong: %+v", direct)
	}
	if direct.BookingToken != "tok_best" {
		t.Errorf("Expected booking token, got %q", direct.BookingToken)
	}

	connecting := res.Flights[1]
	if connecting.Airline != "Iberia, Iberia" || connecting.Stops != 1 {
		t.Errorf("Connecting flight not normalized: %+v", connecting)
	}
	if connecting.ArrivalTime != "2025-06-01 23:45" {
		t.Errorf("Expected last-leg arrival, got %q", connecting.ArrivalTime)
	}

	if !strings.Contains(res.Summary, "from $430") {
		t.Errorf("Expected cheapest price in summary, got %q", res.Summary)
	}
	if gotType != "2" {
		t.Errorf("Expected one-way type=2, got %q", gotType)
	}
}

func TestSearchFlightsRoundTripParams(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"best_flights":[]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	_, err := e.Execute(context.Background(), "search_flights",
		`{"departure":"JFK","arrival":"LIS","outbound_date":"2025-06-01","return_date":"2025-06-08","adults":2}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if gotQuery["type"] != "1" {
		t.Errorf("Expected round-trip type=1, got %q", gotQuery["type"])
	}
	if gotQuery["return_date"] != "2025-06-08" {
		t.Errorf("Expected return_date, got %q", gotQuery["return_date"])
	}
	if gotQuery["adults"] != "2" {
		t.Errorf("Expected adults=2, got %q", gotQuery["adults"])
	}
	if gotQuery["currency"] != "USD" || gotQuery["hl"] != "en" {
		t.Errorf("Expected fixed currency/locale, got %v", gotQuery)
	}
}

func TestSearchFlightsCachesWithinTTL(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(flightsFixture))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	ctx := context.Background()

	first, err := e.Execute(ctx, "search_flights",
		`{"departure":"JFK","arrival":"LIS","outbound_date":"2025-06-01"}`)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	// Same request with reordered keys and the default spelled out
	second, err := e.Execute(ctx, "search_flights",
		`{"adults":1,"outbound_date":"2025-06-01","arrival":"LIS","departure":"JFK"}`)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if requests != 1 {
		t.Errorf("Expected 1 provider request, got %d", requests)
	}
	if first != second {
		t.Errorf("Cached payload must be byte-identical:\n%s\n%s", first, second)
	}
}

func TestSearchFlightsInvalidArgsSkipProvider(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	ctx := context.Background()

	cases := []string{
		`{"departure":"JFK","outbound_date":"2025-06-01"}`,             // missing arrival
		`{"departure":"JFK","arrival":"LIS","outbound_date":"June 1"}`, // bad date
		`{"departure":"JFK","arrival":"LIS","outbound_date":"2025-06-01","return_date":"next week"}`,
		`not json`,
	}
	for _, args := range cases {
		out, err := e.Execute(ctx, "search_flights", args)
		if err != nil {
			t.Fatalf("Execute(%s) returned error: %v", args, err)
		}
		var m map[string]string
		if err := json.Unmarshal([]byte(out), &m); err != nil {
			t.Fatalf("Decoding payload failed: %v", err)
		}
		if m["error"] == "" {
			t.Errorf("Expected error payload for %s, got %s", args, out)
		}
		if !strings.Contains(m["error"], "invalid_argument") {
			t.Errorf("Expected invalid_argument kind, got %q", m["error"])
		}
	}
	if requests != 0 {
		t.Errorf("Invalid arguments must not reach the provider, got %d requests", requests)
	}
}

func TestSearchHotelsRanksByValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort_by"); got != "3" {
			t.Errorf("Expected sort_by=3, got %q", got)
		}
		w.Write([]byte(hotelsFixture))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "search_hotels",
		`{"location":"Lisbon","check_in_date":"2025-06-01","check_out_date":"2025-06-03"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var res HotelsResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("Expected 3 hotels, got %d", res.Count)
	}
	// Value score: $100/4.0 beats $400/5.0 beats unpriced
	if res.Hotels[0].Name != "Good Value Inn" {
		t.Errorf("Expected Good Value Inn first, got %q", res.Hotels[0].Name)
	}
	if res.Hotels[1].Name != "Pricey Palace" {
		t.Errorf("Expected Pricey Palace second, got %q", res.Hotels[1].Name)
	}
	if res.Hotels[2].Name != "No Price Hostel" {
		t.Errorf("Expected unpriced hotel last, got %q", res.Hotels[2].Name)
	}
	if len(res.Hotels[0].Amenities) != 5 {
		t.Errorf("Expected amenities clipped to 5, got %d", len(res.Hotels[0].Amenities))
	}
	if !strings.Contains(res.Summary, "from $100/night") {
		t.Errorf("Expected cheapest rate in summary, got %q", res.Summary)
	}
}

func TestSearchHotelsUpstreamErrorNotCached(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	ctx := context.Background()
	args := `{"location":"Lisbon","check_in_date":"2025-06-01","check_out_date":"2025-06-03"}`

	out, err := e.Execute(ctx, "search_hotels", args)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if !strings.Contains(m["error"], "upstream_error") || !strings.Contains(m["error"], "HTTP 503") {
		t.Errorf("Expected upstream error payload, got %q", m["error"])
	}

	// The failure must not be cached: the identical call hits the provider again.
	if _, err := e.Execute(ctx, "search_hotels", args); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if requests != 2 {
		t.Errorf("Expected 2 provider requests, got %d", requests)
	}
}

func TestSearchAttractionsBuildsCategoryQuery(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"local_results":[
			{"title":"Castelo de S. Jorge","rating":4.6,"reviews":98234,"type":"Castle","address":"R. de Santa Cruz do Castelo"},
			{"title":"Oceanario","rating":4.7,"reviews":120456,"type":"Aquarium","address":"Esplanada Dom Carlos I"}
		]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "search_attractions", `{"location":"Lisbon"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if gotQ != "tourist_attraction in Lisbon" {
		t.Errorf("Expected default category query, got %q", gotQ)
	}

	var res AttractionsResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("Expected 2 attractions, got %d", res.Count)
	}
	if res.Attractions[0].Name != "Castelo de S. Jorge" || res.Attractions[0].Reviews != 98234 {
		t.Errorf("Attraction not normalized: %+v", res.Attractions[0])
	}
}

func TestSearchYouTubeVlogsHonorsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got != "Lisbon travel guide" {
			t.Errorf("Expected search_query param, got %q", got)
		}
		w.Write([]byte(`{"video_results":[
			{"title":"LISBON 4K","channel":{"name":"Wanderers"},"views":2340129,"published_date":"1 year ago","length":"18:32","link":"https://youtu.be/a","thumbnail":{"static":"https://img/a.jpg"}},
			{"title":"Lisbon Food Tour","channel":{"name":"EatWell"},"views":88000,"published_date":"3 months ago","length":"12:05","link":"https://youtu.be/b","thumbnail":{"static":"https://img/b.jpg"}},
			{"title":"Day Trips","channel":{"name":"GoNow"},"views":1200,"published_date":"2 weeks ago","length":"9:58","link":"https://youtu.be/c","thumbnail":{"static":"https://img/c.jpg"}}
		]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "search_youtube_vlogs",
		`{"query":"Lisbon travel guide","max_results":2}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var res YouTubeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("Expected max_results to clip to 2, got %d", res.Count)
	}
	if res.Videos[0].Channel != "Wanderers" || res.Videos[0].Views != 2340129 {
		t.Errorf("Video not normalized: %+v", res.Videos[0])
	}
	if !strings.Contains(res.Summary, "2,340,129 views") {
		t.Errorf("Expected humanized views in summary, got %q", res.Summary)
	}
}

func TestGoogleSearchStitchesTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google_ai_mode" {
			t.Errorf("Expected google_ai_mode engine, got %q", got)
		}
		w.Write([]byte(`{"text_blocks":[
			{"type":"heading","snippet":"Visa requirements"},
			{"type":"paragraph","snippet":"US citizens can stay 90 days."},
			{"type":"list","list":[{"snippet":"Passport valid 3 months beyond stay"},{"title":"Proof of onward travel"}]},
			{"type":"table","snippet":"ignored"}
		]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "google_search", `{"query":"portugal visa rules"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var res SearchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	want := "Visa requirements\n\nUS citizens can stay 90 days.\n\n• Passport valid 3 months beyond stay\n\n• Proof of onward travel"
	if res.Summary != want {
		t.Errorf("Summary not stitched:\ngot  %q\nwant %q", res.Summary, want)
	}
}

func TestGoogleSearchEmptyBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL, "")
	out, err := e.Execute(context.Background(), "google_search", `{"query":"anything"}`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	var res SearchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Summary != "No summary available" {
		t.Errorf("Expected placeholder summary, got %q", res.Summary)
	}
}

func TestSearchWeatherCachesAnswer(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"answer":"Sunny, highs around 24C."}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, "", srv.URL)
	ctx := context.Background()
	args := `{"location":"Lisbon","start_date":"2025-06-01","end_date":"2025-06-03"}`

	out, err := e.Execute(ctx, "search_weather", args)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	var res WeatherResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if res.Weather != "Sunny, highs around 24C." {
		t.Errorf("Weather not returned: %q", res.Weather)
	}

	if _, err := e.Execute(ctx, "search_weather", args); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected cached second call, got %d requests", requests)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	e := newTestExecutor(t, "", "")
	out, err := e.Execute(context.Background(), "book_spaceship", `{}`)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("Decoding payload failed: %v", err)
	}
	if !strings.Contains(m["error"], "unknown tool") {
		t.Errorf("Expected unknown tool error, got %q", m["error"])
	}
	if !strings.Contains(m["error"], "invalid_argument") {
		t.Errorf("Expected invalid_argument kind, got %q", m["error"])
	}
}
