package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Pipeline contains the fetch/score parameters shared by every binary.
type Pipeline struct {
	ProviderBaseURL  string
	ProviderTimeout  time.Duration
	ProviderRate     float64
	ProviderBurst    int
	ModelURL         string
	ModelToken       string
	ModelTimeout     time.Duration
	DefaultSuffix    string
	NewsLimit        int
	MaxNewsLimit     int
	ScoreConcurrency int
}

// API describes HTTP-layer configuration for the dashboard server.
type API struct {
	Pipeline
	BindAddr        string
	WatchlistDB     string
	WatchlistSeed   string
	RefreshSchedule string
}

// LoadPipeline builds pipeline configuration from environment variables.
func LoadPipeline() (*Pipeline, error) {
	c := &Pipeline{
		ProviderBaseURL:  getEnv("PROVIDER_BASE_URL", "https://query1.finance.yahoo.com"),
		ProviderTimeout:  getDuration("PROVIDER_TIMEOUT", "10s"),
		ProviderRate:     getFloat("PROVIDER_RATE_LIMIT", 4),
		ProviderBurst:    getInt("PROVIDER_BURST", 8),
		ModelURL:         getEnv("MODEL_URL", "https://api-inference.huggingface.co/models/ProsusAI/finbert"),
		ModelToken:       getEnv("MODEL_TOKEN", ""),
		ModelTimeout:     getDuration("MODEL_TIMEOUT", "30s"),
		DefaultSuffix:    getEnv("TICKER_DEFAULT_SUFFIX", "NS"),
		NewsLimit:        getInt("NEWS_LIMIT", 15),
		MaxNewsLimit:     getInt("NEWS_MAX_LIMIT", 50),
		ScoreConcurrency: getInt("SCORE_CONCURRENCY", 4),
	}

	if c.ProviderBaseURL == "" {
		return nil, fmt.Errorf("PROVIDER_BASE_URL must not be empty")
	}
	if c.ModelURL == "" {
		return nil, fmt.Errorf("MODEL_URL must not be empty")
	}
	if c.ProviderRate <= 0 {
		return nil, fmt.Errorf("PROVIDER_RATE_LIMIT must be positive")
	}
	if c.ProviderBurst <= 0 {
		return nil, fmt.Errorf("PROVIDER_BURST must be positive")
	}
	if c.NewsLimit <= 0 {
		return nil, fmt.Errorf("NEWS_LIMIT must be positive")
	}
	if c.MaxNewsLimit < c.NewsLimit {
		return nil, fmt.Errorf("NEWS_MAX_LIMIT cannot be below NEWS_LIMIT")
	}
	if c.ScoreConcurrency <= 0 {
		return nil, fmt.Errorf("SCORE_CONCURRENCY must be positive")
	}

	return c, nil
}

// LoadAPI builds the dashboard server config from environment variables.
func LoadAPI() (*API, error) {
	p, err := LoadPipeline()
	if err != nil {
		return nil, err
	}

	c := &API{
		Pipeline:        *p,
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		WatchlistDB:     getEnv("WATCHLIST_DB", "marketmood.db"),
		WatchlistSeed:   getEnv("WATCHLIST_SEED", "watchlist.yaml"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
	}

	if c.WatchlistDB == "" {
		return nil, fmt.Errorf("WATCHLIST_DB must not be empty")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
