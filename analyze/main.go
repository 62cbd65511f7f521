// Command analyze runs one refresh for a single ticker and prints the
// snapshot as JSON. Useful for poking at the pipeline without the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"marketmood/internal/config"
	"marketmood/internal/logger"
	"marketmood/internal/pipeline"
	"marketmood/internal/provider"
	"marketmood/internal/sentiment"
	"marketmood/internal/ticker"
)

func main() {
	symbol := flag.String("ticker", "", "stock symbol to analyze, e.g. RELIANCE.NS")
	limit := flag.Int("limit", 0, "number of headlines to analyze (default from config)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New("analyze")

	if *symbol == "" {
		log.Error("missing required -ticker flag")
		os.Exit(2)
	}

	cfg, err := config.LoadPipeline()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	newsLimit := cfg.NewsLimit
	if *limit > 0 {
		newsLimit = *limit
		if newsLimit > cfg.MaxNewsLimit {
			newsLimit = cfg.MaxNewsLimit
		}
	}

	fetcher := provider.New(provider.Config{
		BaseURL: cfg.ProviderBaseURL,
		Timeout: cfg.ProviderTimeout,
		Rate:    cfg.ProviderRate,
		Burst:   cfg.ProviderBurst,
	}, log)

	scorer := sentiment.NewScorer(sentiment.ScorerConfig{
		URL:     cfg.ModelURL,
		Token:   cfg.ModelToken,
		Timeout: cfg.ModelTimeout,
	}, log)

	pipe := pipeline.New(ticker.Resolver{DefaultSuffix: cfg.DefaultSuffix}, fetcher, scorer, cfg.ScoreConcurrency, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap, err := pipe.Analyze(ctx, *symbol, newsLimit)
	if err != nil {
		log.Error("analysis failed", slog.String("ticker", *symbol), slog.Any("err", err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		log.Error("encode snapshot", slog.Any("err", err))
		os.Exit(1)
	}
}
