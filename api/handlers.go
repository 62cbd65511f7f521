package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"marketmood/internal/config"
	"marketmood/internal/models"
	"marketmood/internal/provider"
	"marketmood/internal/sentiment"
	"marketmood/internal/ticker"
	"marketmood/internal/watchlist"
	"marketmood/internal/ws"
)

type analyzer interface {
	Analyze(ctx context.Context, raw string, newsLimit int) (*models.Snapshot, error)
	Market(ctx context.Context, raw string) (*models.MarketData, error)
}

type watchlistStore interface {
	Add(ctx context.Context, t models.Ticker) error
	Remove(ctx context.Context, t models.Ticker) error
	List(ctx context.Context) ([]watchlist.Entry, error)
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	pipe     analyzer
	store    watchlistStore
	resolver ticker.Resolver
	hub      *ws.Hub
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	limit := clampInt(r.URL.Query().Get("limit"), s.cfg.NewsLimit, s.cfg.MaxNewsLimit)

	snap, err := s.pipe.Analyze(ctx, chi.URLParam(r, "symbol"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	data, err := s.pipe.Market(ctx, chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (s *server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := s.store.List(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"watchlist": entries})
}

func (s *server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	t, err := s.resolver.Resolve(chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Add(ctx, t); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"symbol": t.String()})
}

func (s *server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	t, err := s.resolver.Resolve(chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Remove(ctx, t); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"symbol": t.String()})
}

// writeError maps the pipeline error taxonomy onto HTTP statuses. Every
// failure surfaces as a JSON body the dashboard can show; nothing is
// silently swallowed.
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ticker.ErrInvalidTicker):
		status = http.StatusBadRequest
	case errors.Is(err, watchlist.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, provider.ErrDataUnavailable), errors.Is(err, sentiment.ErrScoring):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", slog.Any("err", err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
