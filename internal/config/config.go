package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultModel is used when TRIPPLANNER_MODEL is unset.
	DefaultModel = "gpt-4o-mini"
	// DefaultCacheTTL bounds provider cache entries when
	// TRIPPLANNER_CACHE_TTL_HOURS is unset.
	DefaultCacheTTL = 6 * time.Hour
	// DefaultMaxToolRounds caps model calls per user turn when
	// TRIPPLANNER_MAX_TOOL_ROUNDS is unset.
	DefaultMaxToolRounds = 10
)

// Config holds runtime configuration. Credentials come from the environment
// (or a .env file loaded at startup); never committed.
type Config struct {
	// OpenAIAPIKey authenticates against the chat-completions backend.
	OpenAIAPIKey string
	// SerpAPIKey authenticates SerpAPI searches (flights, hotels, attractions, youtube, web).
	SerpAPIKey string
	// OpenWeatherAPIKey authenticates the OpenWeather assistant API.
	OpenWeatherAPIKey string
	// Model is the chat model id sent with every completion request.
	Model string
	// LLMBaseURL overrides the OpenAI endpoint (OpenRouter-style gateways work unchanged).
	LLMBaseURL string
	// DataDir is where the SQLite database lives.
	DataDir string
	// DBPath is the SQLite file under DataDir.
	DBPath string
	// CacheTTL is how long provider responses are reused; 0 disables caching.
	CacheTTL time.Duration
	// MaxToolRounds caps model calls per user turn.
	MaxToolRounds int
	// ToolOutputMaxRunes caps tool output length (0 = no truncation).
	ToolOutputMaxRunes int
}

// DefaultDataDir returns the default data directory (project-local
// .tripplanner if present, else ~/.config/tripplanner).
func DefaultDataDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".tripplanner")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripplanner")
}

// New builds config from the environment. dataDir can be empty to use
// TRIPPLANNER_DATA_DIR or the default location.
func New(dataDir string) *Config {
	if dataDir == "" {
		if d := os.Getenv("TRIPPLANNER_DATA_DIR"); d != "" {
			dataDir = d
		} else {
			dataDir = DefaultDataDir()
		}
	}

	model := os.Getenv("TRIPPLANNER_MODEL")
	if model == "" {
		model = DefaultModel
	}

	cacheTTL := DefaultCacheTTL
	if v := os.Getenv("TRIPPLANNER_CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cacheTTL = time.Duration(n) * time.Hour
		}
	}
	maxRounds := DefaultMaxToolRounds
	if v := os.Getenv("TRIPPLANNER_MAX_TOOL_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxRounds = n
		}
	}
	toolOutputMaxRunes := 0
	if v := os.Getenv("TRIPPLANNER_TOOL_OUTPUT_MAX_RUNES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			toolOutputMaxRunes = n
		}
	}

	return &Config{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		SerpAPIKey:         os.Getenv("SERPAPI_API_KEY"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		Model:              model,
		LLMBaseURL:         os.Getenv("TRIPPLANNER_LLM_BASE_URL"),
		DataDir:            dataDir,
		DBPath:             filepath.Join(dataDir, "tripplanner.db"),
		CacheTTL:           cacheTTL,
		MaxToolRounds:      maxRounds,
		ToolOutputMaxRunes: toolOutputMaxRunes,
	}
}

// Validate reports the required credentials that are missing from the
// environment. Startup fails on a non-nil result.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.SerpAPIKey == "" {
		missing = append(missing, "SERPAPI_API_KEY")
	}
	if c.OpenWeatherAPIKey == "" {
		missing = append(missing, "OPENWEATHER_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
