package models

import "time"

// Ticker is an exchange-qualified stock symbol, e.g. "RELIANCE.NS".
// A Ticker is only constructed by the resolver and never mutated afterwards.
type Ticker string

func (t Ticker) String() string { return string(t) }

// FetchMode selects how much data the provider is asked for.
type FetchMode string

const (
	// ModeRich requests the full quote field set plus price history.
	ModeRich FetchMode = "rich"
	// ModeMinimal requests a reduced field set in a single call.
	ModeMinimal FetchMode = "minimal"
)

// Quote holds the latest price data for a ticker. Open, DayHigh and DayLow
// are only populated in rich mode.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	Open          float64 `json:"open,omitempty"`
	DayHigh       float64 `json:"day_high,omitempty"`
	DayLow        float64 `json:"day_low,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// PricePoint is one daily close in the price history series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Headline is a single news item as returned by the provider.
// Read-only downstream of the fetcher.
type Headline struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// MarketData bundles everything one fetch returns for a ticker.
type MarketData struct {
	Ticker    Ticker       `json:"ticker"`
	Mode      FetchMode    `json:"mode"`
	Quote     Quote        `json:"quote"`
	History   []PricePoint `json:"history,omitempty"`
	Headlines []Headline   `json:"headlines"`
	FetchedAt time.Time    `json:"fetched_at"`
}
