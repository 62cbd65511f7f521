package main

import (
	"context"
	"log/slog"
	"time"
)

// refreshWatchlist runs one pipeline pass per pinned ticker and pushes the
// snapshots to connected dashboards. Each ticker is independent: a failing
// one is logged and the rest still refresh.
func (s *server) refreshWatchlist() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	entries, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("refresh: list watchlist", slog.Any("err", err))
		return
	}

	for _, entry := range entries {
		snap, err := s.pipe.Analyze(ctx, entry.Symbol, s.cfg.NewsLimit)
		if err != nil {
			s.log.Warn("refresh: ticker failed",
				slog.String("symbol", entry.Symbol),
				slog.Any("err", err),
			)
			continue
		}
		s.hub.Broadcast(snap)
	}

	s.log.Info("watchlist refresh complete",
		slog.Int("tickers", len(entries)),
		slog.Int("clients", s.hub.ClientCount()),
	)
}
