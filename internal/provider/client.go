package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"marketmood/internal/metrics"
	"marketmood/internal/models"
)

// ErrDataUnavailable is returned once both fetch modes have been exhausted.
var ErrDataUnavailable = errors.New("market data unavailable")

// Config holds provider client parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Rate    float64
	Burst   int
}

// Client talks to a Yahoo-Finance-style market data API. Outbound calls are
// rate limited with a token bucket to stay under the provider's free-tier
// quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	log        *slog.Logger
}

// New instantiates the provider client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 4
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 8
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		log:        logger,
	}
}

// FetchWithFallback runs the two-branch fallback chain: rich mode first,
// exactly one minimal-mode retry on failure, then ErrDataUnavailable.
func (c *Client) FetchWithFallback(ctx context.Context, t models.Ticker, newsLimit int) (*models.MarketData, error) {
	data, richErr := c.Fetch(ctx, t, models.ModeRich, newsLimit)
	if richErr == nil {
		return data, nil
	}

	c.log.Warn("rich fetch failed, retrying in minimal mode",
		slog.String("ticker", t.String()),
		slog.Any("err", richErr),
	)
	metrics.RecordFallback()

	data, minErr := c.Fetch(ctx, t, models.ModeMinimal, newsLimit)
	if minErr == nil {
		return data, nil
	}

	return nil, fmt.Errorf("%w for %s: rich: %v; minimal: %v", ErrDataUnavailable, t, richErr, minErr)
}

// Fetch retrieves quote, price history and recent headlines for a ticker in
// the requested mode. Rich mode asks for the full quote field set; minimal
// mode derives a reduced quote from the single chart call.
func (c *Client) Fetch(ctx context.Context, t models.Ticker, mode models.FetchMode, newsLimit int) (*models.MarketData, error) {
	data := &models.MarketData{
		Ticker:    t,
		Mode:      mode,
		FetchedAt: time.Now().UTC(),
	}

	chart, err := c.fetchChart(ctx, t)
	if err != nil {
		return nil, err
	}
	data.History = chart.history

	if mode == models.ModeRich {
		quote, err := c.fetchQuote(ctx, t)
		if err != nil {
			return nil, err
		}
		data.Quote = quote
	} else {
		data.Quote = chart.quote
	}

	headlines, err := c.fetchNews(ctx, t, newsLimit)
	if err != nil {
		return nil, err
	}
	data.Headlines = headlines

	return data, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			Currency                   string  `json:"currency"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			RegularMarketOpen          float64 `json:"regularMarketOpen"`
			RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
			RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (c *Client) fetchQuote(ctx context.Context, t models.Ticker) (models.Quote, error) {
	var parsed quoteResponse
	query := url.Values{"symbols": {t.String()}}
	if err := c.get(ctx, "/v7/finance/quote", query, &parsed); err != nil {
		return models.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}

	results := parsed.QuoteResponse.Result
	if len(results) == 0 {
		return models.Quote{}, fmt.Errorf("fetch quote: no result for %s", t)
	}

	r := results[0]
	if r.RegularMarketPrice == 0 {
		return models.Quote{}, fmt.Errorf("fetch quote: missing price for %s", t)
	}

	q := models.Quote{
		Symbol:        r.Symbol,
		Price:         r.RegularMarketPrice,
		PreviousClose: r.RegularMarketPreviousClose,
		Open:          r.RegularMarketOpen,
		DayHigh:       r.RegularMarketDayHigh,
		DayLow:        r.RegularMarketDayLow,
		Currency:      r.Currency,
	}
	fillChange(&q)
	return q, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

type chartData struct {
	quote   models.Quote
	history []models.PricePoint
}

func (c *Client) fetchChart(ctx context.Context, t models.Ticker) (*chartData, error) {
	var parsed chartResponse
	query := url.Values{"range": {"1mo"}, "interval": {"1d"}}
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(t.String()), query, &parsed); err != nil {
		return nil, fmt.Errorf("fetch chart: %w", err)
	}

	results := parsed.Chart.Result
	if len(results) == 0 {
		return nil, fmt.Errorf("fetch chart: no result for %s", t)
	}

	r := results[0]
	if r.Meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("fetch chart: missing price for %s", t)
	}

	data := &chartData{
		quote: models.Quote{
			Symbol:        r.Meta.Symbol,
			Price:         r.Meta.RegularMarketPrice,
			PreviousClose: r.Meta.ChartPreviousClose,
			Currency:      r.Meta.Currency,
		},
	}
	fillChange(&data.quote)

	if len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i, ts := range r.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			data.history = append(data.history, models.PricePoint{
				Date:  time.Unix(ts, 0).UTC(),
				Close: *closes[i],
			})
		}
	}

	return data, nil
}

type newsResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		Summary             string `json:"summary"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

func (c *Client) fetchNews(ctx context.Context, t models.Ticker, limit int) ([]models.Headline, error) {
	if limit <= 0 {
		limit = 15
	}

	var parsed newsResponse
	query := url.Values{
		"q":           {t.String()},
		"newsCount":   {strconv.Itoa(limit)},
		"quotesCount": {"0"},
	}
	if err := c.get(ctx, "/v1/finance/search", query, &parsed); err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	headlines := make([]models.Headline, 0, len(parsed.News))
	for _, item := range parsed.News {
		if item.Title == "" {
			continue
		}
		headlines = append(headlines, models.Headline{
			Title:       item.Title,
			Summary:     item.Summary,
			Source:      item.Publisher,
			URL:         item.Link,
			PublishedAt: time.Unix(item.ProviderPublishTime, 0).UTC(),
		})
	}

	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].PublishedAt.After(headlines[j].PublishedAt)
	})

	if len(headlines) > limit {
		headlines = headlines[:limit]
	}

	return headlines, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "marketmood/1.0")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("provider returned %d: %s", res.StatusCode, string(body))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func fillChange(q *models.Quote) {
	if q.Price == 0 || q.PreviousClose == 0 {
		return
	}
	q.Change = q.Price - q.PreviousClose
	q.ChangePercent = q.Change / q.PreviousClose * 100
}
