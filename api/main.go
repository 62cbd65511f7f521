package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"marketmood/internal/config"
	"marketmood/internal/logger"
	"marketmood/internal/pipeline"
	"marketmood/internal/provider"
	"marketmood/internal/sentiment"
	"marketmood/internal/ticker"
	"marketmood/internal/watchlist"
	"marketmood/internal/ws"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	store, err := watchlist.Open(cfg.WatchlistDB)
	if err != nil {
		log.Error("open watchlist", slog.Any("err", err))
		os.Exit(1)
	}
	if seeded, err := store.SeedFromFile(context.Background(), cfg.WatchlistSeed); err != nil {
		log.Error("seed watchlist", slog.Any("err", err))
		os.Exit(1)
	} else if seeded > 0 {
		log.Info("watchlist seeded", slog.Int("entries", seeded))
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

	resolver := ticker.Resolver{DefaultSuffix: cfg.DefaultSuffix}
	pipe := pipeline.New(resolver, fetcher, scorer, cfg.ScoreConcurrency, log)
	hub := ws.NewHub(log)

	srv := &server{log: log, cfg: cfg, pipe: pipe, store: store, resolver: resolver, hub: hub}

	if cfg.RefreshSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.RefreshSchedule, srv.refreshWatchlist); err != nil {
			log.Error("invalid refresh schedule", slog.Any("err", err))
			os.Exit(1)
		}
		c.Start()
		defer c.Stop()
		log.Info("periodic refresh enabled", slog.String("schedule", cfg.RefreshSchedule))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", hub.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/analysis/{symbol}", srv.handleAnalysis)
		r.Get("/quote/{symbol}", srv.handleQuote)
		r.Get("/watchlist", srv.handleWatchlistList)
		r.Post("/watchlist/{symbol}", srv.handleWatchlistAdd)
		r.Delete("/watchlist/{symbol}", srv.handleWatchlistRemove)
	})

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
