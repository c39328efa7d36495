package serpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the SerpAPI endpoint root.
const DefaultBaseURL = "https://serpapi.com"

// Client calls SerpAPI search engines (google_flights, google_hotels,
// google_maps, youtube, google_ai_mode).
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a SerpAPI client with the given key.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Search runs one engine query and returns the parsed response body.
// A SerpAPI-level "error" field in the body is surfaced as an error even
// when the HTTP status is 200.
func (c *Client) Search(ctx context.Context, engine string, params map[string]string) (gjson.Result, error) {
	if c.APIKey == "" {
		return gjson.Result{}, fmt.Errorf("serpapi: API key not set")
	}
	q := url.Values{}
	q.Set("engine", engine)
	q.Set("api_key", c.APIKey)
	for k, v := range params {
		q.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return gjson.Result{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("serpapi: %s: %w", engine, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("serpapi: %s: reading response: %w", engine, err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("serpapi: %s: HTTP %d: %s", engine, resp.StatusCode, string(body))
	}

	parsed := gjson.ParseBytes(body)
	if apiErr := parsed.Get("error"); apiErr.Exists() {
		return gjson.Result{}, fmt.Errorf("serpapi: %s: %s", engine, apiErr.String())
	}
	return parsed, nil
}
