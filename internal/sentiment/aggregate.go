package sentiment

import "marketmood/internal/models"

// Aggregate folds per-headline scores into a per-ticker summary. The result
// is order-independent: only label counts matter.
//
// The overall score is (positive - negative) / total, in [-1,1]. A tie
// between positive and negative counts scores 0 and reads as neutral. An
// empty input yields the "no data" sentinel rather than an error: no news
// found is not a failure.
func Aggregate(scores []models.SentimentScore) models.AggregateSentiment {
	agg := models.AggregateSentiment{Mood: models.MoodNoData}
	if len(scores) == 0 {
		return agg
	}

	for _, s := range scores {
		switch s.Label {
		case models.SentimentPositive:
			agg.Positive++
		case models.SentimentNegative:
			agg.Negative++
		default:
			agg.Neutral++
		}
	}

	agg.Total = len(scores)
	agg.Score = float64(agg.Positive-agg.Negative) / float64(agg.Total)

	switch {
	case agg.Positive > agg.Negative:
		agg.Mood = models.MoodBullish
	case agg.Negative > agg.Positive:
		agg.Mood = models.MoodBearish
	default:
		agg.Mood = models.MoodNeutral
	}

	return agg
}
