// Trip Planner is a conversational travel agent: an OpenAI-compatible model
// drives flight/hotel/weather/attraction search tools through a bounded
// orchestration loop, with conversations and provider responses persisted in
// SQLite. The terminal chat is the only interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vibhudawar/Travel-Planner-Agent/internal/agent"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/cache"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/config"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/llm"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/middleware"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/openweather"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/serpapi"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/store"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/tools"
	"github.com/vibhudawar/Travel-Planner-Agent/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := config.New("")
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	providerCache := cache.New(db, cfg.CacheTTL)
	providerCache.PurgeExpired(ctx)

	executor := &tools.Executor{
		Serp:    serpapi.NewClient(cfg.SerpAPIKey),
		Weather: openweather.NewClient(cfg.OpenWeatherAPIKey),
		Cache:   providerCache,
	}

	loop := &agent.Loop{
		Store:         db,
		Client:        llm.NewClient(cfg.OpenAIAPIKey, cfg.Model, cfg.LLMBaseURL),
		Executor:      middleware.NewTruncatingExecutor(executor, cfg.ToolOutputMaxRunes),
		Model:         cfg.Model,
		MaxToolRounds: cfg.MaxToolRounds,
	}

	log.Printf("[MAIN] Model %s, data dir %s", cfg.Model, cfg.DataDir)
	chat := &tui.Chat{Loop: loop, Store: db}
	return chat.Run(ctx)
}
