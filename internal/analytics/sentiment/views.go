package sentiment

import (
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/samber/lo"
)

type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNeutral  Trend = "neutral"
	TrendNegative Trend = "negative"

	trendBand = 0.2

	DefaultAlertThreshold = -0.5
	DefaultAlertWindow    = 3
	highSeverityBelow     = -0.7
	GraphWindow           = 30 * time.Minute
	recentScores          = 10
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func Classify(score float64) Trend {
	switch {
	case score > trendBand:
		return TrendPositive
	case score < -trendBand:
		return TrendNegative
	default:
		return TrendNeutral
	}
}

func Average(entries []domain.SentimentEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	return lo.SumBy(entries, func(e domain.SentimentEntry) float64 { return e.Score }) / float64(len(entries))
}

// TrendOf classifies the average score of entries; empty input is neutral.
func TrendOf(entries []domain.SentimentEntry) Trend {
	return Classify(Average(entries))
}

type Alert struct {
	Severity Severity `json:"severity"`
	Average  float64  `json:"avg_score"`
	Message  string   `json:"message"`
}

// DetectAlert fires when each of the last window entries is below threshold.
// Fewer entries than window never alert.
func DetectAlert(entries []domain.SentimentEntry, threshold float64, window int) (Alert, bool) {
	if window <= 0 || len(entries) < window {
		return Alert{}, false
	}
	recent := entries[len(entries)-window:]
	if !lo.EveryBy(recent, func(e domain.SentimentEntry) bool { return e.Score < threshold }) {
		return Alert{}, false
	}
	avg := Average(recent)
	sev := SeverityMedium
	if avg < highSeverityBelow {
		sev = SeverityHigh
	}
	return Alert{
		Severity: sev,
		Average:  avg,
		Message: fmt.Sprintf(
			"Meeting sentiment has been consistently negative (avg: %.2f). Consider addressing concerns or taking a break.", avg),
	}, true
}

type Counts struct {
	Positive int `json:"positive_count"`
	Neutral  int `json:"neutral_count"`
	Negative int `json:"negative_count"`
	Total    int `json:"total_entries"`
}

type Graph struct {
	Entries []domain.SentimentEntry `json:"sentiment_history"`
	Overall float64                 `json:"overall_sentiment"`
	Trend   Trend                   `json:"trend"`
	Summary string                  `json:"summary"`
	Stats   Counts                  `json:"stats"`
}

// BuildGraph summarizes the entries recorded within window before now.
func BuildGraph(entries []domain.SentimentEntry, now time.Time, window time.Duration) Graph {
	cutoff := now.Add(-window)
	recent := lo.Filter(entries, func(e domain.SentimentEntry, _ int) bool { return !e.Timestamp.Before(cutoff) })
	if len(recent) == 0 {
		return Graph{Entries: []domain.SentimentEntry{}, Trend: TrendNeutral, Summary: "No recent sentiment data"}
	}
	c := Counts{Total: len(recent)}
	for _, e := range recent {
		switch Classify(e.Score) {
		case TrendPositive:
			c.Positive++
		case TrendNegative:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	overall := Average(recent)
	return Graph{
		Entries: recent,
		Overall: overall,
		Trend:   Classify(overall),
		Summary: fmt.Sprintf("Recent sentiment: %d positive, %d neutral, %d negative statements", c.Positive, c.Neutral, c.Negative),
		Stats:   c,
	}
}

type SpeakerSentiment struct {
	Speaker      domain.ConnID `json:"speaker_id"`
	Average      float64       `json:"avg_sentiment"`
	Trend        Trend         `json:"trend"`
	Statements   int           `json:"total_statements"`
	RecentScores []float64     `json:"recent_scores"`
}

func ForSpeaker(entries []domain.SentimentEntry, speaker domain.ConnID) SpeakerSentiment {
	own := lo.Filter(entries, func(e domain.SentimentEntry, _ int) bool { return e.Speaker == speaker })
	scores := lo.Map(own, func(e domain.SentimentEntry, _ int) float64 { return e.Score })
	if len(scores) > recentScores {
		scores = scores[len(scores)-recentScores:]
	}
	avg := Average(own)
	return SpeakerSentiment{
		Speaker:      speaker,
		Average:      avg,
		Trend:        Classify(avg),
		Statements:   len(own),
		RecentScores: scores,
	}
}
