package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"marketmood/internal/models"
	"marketmood/internal/processing"
)

// ErrScoring is returned when the model call fails or produces output that
// cannot be trusted (unknown label, confidence outside [0,1]).
var ErrScoring = errors.New("sentiment scoring failed")

// The model caps input length; headlines are truncated well below it.
const maxInputRunes = 512

// ScorerConfig holds classifier endpoint parameters.
type ScorerConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Scorer classifies headline text through a hosted pretrained model. The
// model is treated as a black box: the top-ranked candidate label is taken
// as-is, with no threshold logic on this side. Calls go through a circuit
// breaker so a dead endpoint fails fast mid-refresh instead of burning the
// timeout once per headline.
type Scorer struct {
	httpClient *http.Client
	url        string
	token      string
	breaker    *gobreaker.CircuitBreaker
	log        *slog.Logger
}

// NewScorer creates a scorer for the configured inference endpoint.
func NewScorer(cfg ScorerConfig, logger *slog.Logger) *Scorer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	settings := gobreaker.Settings{
		Name:        "sentiment-model",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Scorer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		token:      cfg.Token,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		log:        logger,
	}
}

// Score classifies one headline's text. Stateless per call.
func (s *Scorer) Score(ctx context.Context, text string) (models.SentimentScore, error) {
	cleaned := processing.Truncate(processing.CleanHeadline(text), maxInputRunes)
	if cleaned == "" {
		return models.SentimentScore{}, fmt.Errorf("%w: empty text", ErrScoring)
	}

	result, err := s.breaker.Execute(func() (any, error) {
		return s.classify(ctx, cleaned)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return models.SentimentScore{}, fmt.Errorf("%w: model circuit open", ErrScoring)
		}
		return models.SentimentScore{}, fmt.Errorf("%w: %v", ErrScoring, err)
	}

	return result.(models.SentimentScore), nil
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (s *Scorer) classify(ctx context.Context, text string) (models.SentimentScore, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return models.SentimentScore{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return models.SentimentScore{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return models.SentimentScore{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return models.SentimentScore{}, fmt.Errorf("model returned %d: %s", res.StatusCode, string(body))
	}

	var parsed [][]candidate
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return models.SentimentScore{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0]) == 0 {
		return models.SentimentScore{}, errors.New("model returned no candidates")
	}

	top := parsed[0][0]
	for _, c := range parsed[0][1:] {
		if c.Score > top.Score {
			top = c
		}
	}

	return validate(top)
}

func validate(c candidate) (models.SentimentScore, error) {
	if c.Score < 0 || c.Score > 1 {
		return models.SentimentScore{}, fmt.Errorf("confidence %v outside [0,1]", c.Score)
	}

	var label models.SentimentLabel
	switch strings.ToLower(strings.TrimSpace(c.Label)) {
	case "positive":
		label = models.SentimentPositive
	case "negative":
		label = models.SentimentNegative
	case "neutral":
		label = models.SentimentNeutral
	default:
		return models.SentimentScore{}, fmt.Errorf("unknown label %q", c.Label)
	}

	return models.SentimentScore{Label: label, Confidence: c.Score}, nil
}
