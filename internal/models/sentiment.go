package models

import "time"

// SentimentLabel is the categorical polarity of one headline.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentScore is the classifier output for exactly one headline.
type SentimentScore struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// ScoredHeadline pairs a headline with its sentiment score.
type ScoredHeadline struct {
	Headline
	Sentiment SentimentScore `json:"sentiment"`
}

// Mood is the per-ticker verdict derived from label counts.
type Mood string

const (
	MoodBullish Mood = "bullish"
	MoodBearish Mood = "bearish"
	MoodNeutral Mood = "neutral"
	// MoodNoData marks the sentinel aggregate for an empty headline list.
	MoodNoData Mood = "no_data"
)

// AggregateSentiment is the per-ticker sentiment summary. It is built fresh
// on every refresh and never persisted.
type AggregateSentiment struct {
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Neutral  int     `json:"neutral"`
	Total    int     `json:"total"`
	Score    float64 `json:"score"`
	Mood     Mood    `json:"mood"`
}

// Snapshot is one complete refresh result for the dashboard.
type Snapshot struct {
	ID          string             `json:"id"`
	Ticker      Ticker             `json:"ticker"`
	Mode        FetchMode          `json:"mode"`
	Quote       Quote              `json:"quote"`
	History     []PricePoint       `json:"history,omitempty"`
	Headlines   []ScoredHeadline   `json:"headlines"`
	Aggregate   AggregateSentiment `json:"aggregate"`
	Skipped     int                `json:"skipped"`
	GeneratedAt time.Time          `json:"generated_at"`
}
