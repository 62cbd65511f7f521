package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketmood/internal/config"
)

func TestLoadPipelineDefaults(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "")
	t.Setenv("MODEL_URL", "")
	t.Setenv("NEWS_LIMIT", "")
	t.Setenv("SCORE_CONCURRENCY", "")

	cfg, err := config.LoadPipeline()
	require.NoError(t, err)

	require.Equal(t, "https://query1.finance.yahoo.com", cfg.ProviderBaseURL)
	require.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	require.Equal(t, "NS", cfg.DefaultSuffix)
	require.Equal(t, 15, cfg.NewsLimit)
	require.Equal(t, 50, cfg.MaxNewsLimit)
	require.Equal(t, 4, cfg.ScoreConcurrency)
}

func TestLoadPipelineOverrides(t *testing.T) {
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:9999")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("PROVIDER_RATE_LIMIT", "2.5")
	t.Setenv("PROVIDER_BURST", "3")
	t.Setenv("MODEL_URL", "http://localhost:8000/classify")
	t.Setenv("MODEL_TOKEN", "secret")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("TICKER_DEFAULT_SUFFIX", "BO")
	t.Setenv("NEWS_LIMIT", "5")
	t.Setenv("NEWS_MAX_LIMIT", "25")
	t.Setenv("SCORE_CONCURRENCY", "8")

	cfg, err := config.LoadPipeline()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.ProviderBaseURL)
	require.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	require.Equal(t, 2.5, cfg.ProviderRate)
	require.Equal(t, 3, cfg.ProviderBurst)
	require.Equal(t, "http://localhost:8000/classify", cfg.ModelURL)
	require.Equal(t, "secret", cfg.ModelToken)
	require.Equal(t, 5*time.Second, cfg.ModelTimeout)
	require.Equal(t, "BO", cfg.DefaultSuffix)
	require.Equal(t, 5, cfg.NewsLimit)
	require.Equal(t, 25, cfg.MaxNewsLimit)
	require.Equal(t, 8, cfg.ScoreConcurrency)
}

func TestLoadPipelineRejectsBadLimits(t *testing.T) {
	t.Setenv("NEWS_LIMIT", "30")
	t.Setenv("NEWS_MAX_LIMIT", "10")

	_, err := config.LoadPipeline()
	require.Error(t, err)
}

func TestLoadAPI(t *testing.T) {
	t.Setenv("API_BIND_ADDR", ":9090")
	t.Setenv("WATCHLIST_DB", "test.db")
	t.Setenv("WATCHLIST_SEED", "seed.yaml")
	t.Setenv("REFRESH_SCHEDULE", "@every 5m")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "test.db", cfg.WatchlistDB)
	require.Equal(t, "seed.yaml", cfg.WatchlistSeed)
	require.Equal(t, "@every 5m", cfg.RefreshSchedule)
}

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("WATCHLIST_DB", "")
	t.Setenv("REFRESH_SCHEDULE", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, "marketmood.db", cfg.WatchlistDB)
	require.Empty(t, cfg.RefreshSchedule)
}
