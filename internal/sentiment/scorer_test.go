package sentiment_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketmood/internal/models"
	"marketmood/internal/sentiment"
)

func newScorer(t *testing.T, body string, status int) (*sentiment.Scorer, *atomic.Int64) {
	t.Helper()

	calls := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	return sentiment.NewScorer(sentiment.ScorerConfig{
		URL:     srv.URL,
		Timeout: 2 * time.Second,
	}, nil), calls
}

func TestScorePicksTopCandidate(t *testing.T) {
	body := `[[{"label":"neutral","score":0.07},{"label":"positive","score":0.88},{"label":"negative","score":0.05}]]`
	scorer, _ := newScorer(t, body, http.StatusOK)

	score, err := scorer.Score(context.Background(), "Reliance posts record quarterly profit")
	require.NoError(t, err)
	require.Equal(t, models.SentimentPositive, score.Label)
	require.InDelta(t, 0.88, score.Confidence, 1e-9)
}

func TestScoreNormalizesLabelCase(t *testing.T) {
	body := `[[{"label":"NEGATIVE","score":0.91}]]`
	scorer, _ := newScorer(t, body, http.StatusOK)

	score, err := scorer.Score(context.Background(), "Margins collapse on input costs")
	require.NoError(t, err)
	require.Equal(t, models.SentimentNegative, score.Label)
}

func TestScoreRejectsConfidenceOutOfRange(t *testing.T) {
	body := `[[{"label":"positive","score":1.2}]]`
	scorer, _ := newScorer(t, body, http.StatusOK)

	_, err := scorer.Score(context.Background(), "some headline")
	require.ErrorIs(t, err, sentiment.ErrScoring)
}

func TestScoreRejectsUnknownLabel(t *testing.T) {
	body := `[[{"label":"bullish","score":0.8}]]`
	scorer, _ := newScorer(t, body, http.StatusOK)

	_, err := scorer.Score(context.Background(), "some headline")
	require.ErrorIs(t, err, sentiment.ErrScoring)
}

func TestScoreModelError(t *testing.T) {
	scorer, calls := newScorer(t, "", http.StatusServiceUnavailable)

	_, err := scorer.Score(context.Background(), "some headline")
	require.ErrorIs(t, err, sentiment.ErrScoring)
	require.EqualValues(t, 1, calls.Load())
}

func TestScoreEmptyText(t *testing.T) {
	scorer, calls := newScorer(t, `[[{"label":"neutral","score":0.5}]]`, http.StatusOK)

	_, err := scorer.Score(context.Background(), "   ")
	require.ErrorIs(t, err, sentiment.ErrScoring)
	require.Zero(t, calls.Load())
}
