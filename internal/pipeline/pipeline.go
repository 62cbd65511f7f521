// Package pipeline runs one dashboard refresh: resolve the ticker, fetch
// market data with the rich-to-minimal fallback, score each headline, and
// aggregate per-ticker sentiment into a snapshot.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"marketmood/internal/metrics"
	"marketmood/internal/models"
	"marketmood/internal/processing"
	"marketmood/internal/sentiment"
	"marketmood/internal/ticker"
)

// Fetcher retrieves market data for a resolved ticker, falling back from
// rich to minimal mode internally.
type Fetcher interface {
	FetchWithFallback(ctx context.Context, t models.Ticker, newsLimit int) (*models.MarketData, error)
}

// Scorer classifies one headline's text.
type Scorer interface {
	Score(ctx context.Context, text string) (models.SentimentScore, error)
}

// Pipeline wires the resolver, fetcher and scorer into a single refresh
// pass. It holds no mutable state between invocations.
type Pipeline struct {
	resolver    ticker.Resolver
	fetcher     Fetcher
	scorer      Scorer
	concurrency int
	log         *slog.Logger
}

// New builds a pipeline. Concurrency bounds the number of parallel scoring
// calls per refresh.
func New(resolver ticker.Resolver, fetcher Fetcher, scorer Scorer, concurrency int, logger *slog.Logger) *Pipeline {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		resolver:    resolver,
		fetcher:     fetcher,
		scorer:      scorer,
		concurrency: concurrency,
		log:         logger,
	}
}

// Analyze executes one refresh for the raw user symbol and returns a fresh
// snapshot. Individual scoring failures degrade gracefully: the headline is
// skipped and counted, and the refresh only fails when every headline fails.
func (p *Pipeline) Analyze(ctx context.Context, raw string, newsLimit int) (*models.Snapshot, error) {
	start := time.Now()

	snap, err := p.analyze(ctx, raw, newsLimit)
	metrics.RecordRefresh(err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	p.log.Info("refresh complete",
		slog.String("ticker", snap.Ticker.String()),
		slog.String("mode", string(snap.Mode)),
		slog.Int("headlines", len(snap.Headlines)),
		slog.Int("skipped", snap.Skipped),
		slog.String("mood", string(snap.Aggregate.Mood)),
	)

	return snap, nil
}

func (p *Pipeline) analyze(ctx context.Context, raw string, newsLimit int) (*models.Snapshot, error) {
	t, err := p.resolver.Resolve(raw)
	if err != nil {
		return nil, err
	}

	data, err := p.fetcher.FetchWithFallback(ctx, t, newsLimit)
	if err != nil {
		return nil, err
	}

	scored, skipped, err := p.scoreAll(ctx, data.Headlines)
	if err != nil {
		return nil, err
	}

	scores := make([]models.SentimentScore, 0, len(scored))
	for _, sh := range scored {
		scores = append(scores, sh.Sentiment)
		metrics.RecordHeadlineScored(string(sh.Sentiment.Label))
	}
	metrics.RecordHeadlinesSkipped(skipped)

	return &models.Snapshot{
		ID:          uuid.NewString(),
		Ticker:      t,
		Mode:        data.Mode,
		Quote:       data.Quote,
		History:     data.History,
		Headlines:   scored,
		Aggregate:   sentiment.Aggregate(scores),
		Skipped:     skipped,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Market fetches quote and history without scoring, for quote-only panels.
func (p *Pipeline) Market(ctx context.Context, raw string) (*models.MarketData, error) {
	t, err := p.resolver.Resolve(raw)
	if err != nil {
		return nil, err
	}
	return p.fetcher.FetchWithFallback(ctx, t, 1)
}

// scoreAll classifies headlines concurrently but collects results by index,
// so the outcome is deterministic regardless of completion order.
func (p *Pipeline) scoreAll(ctx context.Context, headlines []models.Headline) ([]models.ScoredHeadline, int, error) {
	if len(headlines) == 0 {
		return nil, 0, nil
	}

	results := make([]*models.ScoredHeadline, len(headlines))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.concurrency)
	for i, h := range headlines {
		i, h := i, h
		eg.Go(func() error {
			text := processing.ScoringText(h.Title, h.Summary)
			score, err := p.scorer.Score(egCtx, text)
			if err != nil {
				p.log.Warn("headline skipped",
					slog.String("title", h.Title),
					slog.Any("err", err),
				)
				return nil
			}
			results[i] = &models.ScoredHeadline{Headline: h, Sentiment: score}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	scored := make([]models.ScoredHeadline, 0, len(headlines))
	for _, r := range results {
		if r != nil {
			scored = append(scored, *r)
		}
	}

	skipped := len(headlines) - len(scored)
	if len(scored) == 0 {
		return nil, skipped, fmt.Errorf("%w: all %d headlines failed", sentiment.ErrScoring, len(headlines))
	}

	return scored, skipped, nil
}
