package engagement

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/samber/lo"
)

const (
	TitleChamp    = "Meeting Champ"
	TitleListener = "Silent Listener"
)

type Standing struct {
	Rank         int           `json:"rank"`
	ID           domain.ConnID `json:"sid"`
	Name         string        `json:"name"`
	Score        float64       `json:"engagement_score"`
	SpeakingTime float64       `json:"speaking_time"`
	AvgAttention float64       `json:"avg_attention"`
	LastActivity time.Time     `json:"last_activity"`
	Title        string        `json:"title"`
}

type Share struct {
	Name       string  `json:"name"`
	Seconds    float64 `json:"time"`
	Percentage float64 `json:"percentage"`
}

type Insights struct {
	TotalParticipants    int                    `json:"total_participants"`
	AvgEngagement        float64                `json:"avg_engagement"`
	AvgAttention         float64                `json:"avg_attention"`
	MeetingDuration      float64                `json:"meeting_duration"`
	MostEngaged          *Standing              `json:"most_engaged"`
	LeastEngaged         *Standing              `json:"least_engaged"`
	SpeakingDistribution map[domain.ConnID]Share `json:"speaking_distribution"`
}

// Leaderboard orders participants by descending score. Ties keep join order.
func Leaderboard(ps []domain.Participant, attention map[domain.ConnID][]float64) []Standing {
	sorted := slices.Clone(ps)
	slices.SortStableFunc(sorted, func(a, b domain.Participant) int {
		if c := cmp.Compare(b.Engagement, a.Engagement); c != 0 {
			return c
		}
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	out := make([]Standing, 0, len(sorted))
	for i, p := range sorted {
		out = append(out, Standing{
			Rank:         i + 1,
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Engagement,
			SpeakingTime: p.SpeakingTime,
			AvgAttention: mean(attention[p.ID]),
			LastActivity: p.LastActivity,
			Title:        title(i, len(sorted)),
		})
	}
	return out
}

func title(i, n int) string {
	switch {
	case n > 1 && i == 0:
		return TitleChamp
	case n > 1 && i == n-1:
		return TitleListener
	default:
		return fmt.Sprintf("#%d", i+1)
	}
}

// SpeakingDistribution is each participant's share of total speaking time in
// percent; all zero when nobody spoke.
func SpeakingDistribution(ps []domain.Participant) map[domain.ConnID]Share {
	total := lo.SumBy(ps, func(p domain.Participant) float64 { return p.SpeakingTime })
	out := make(map[domain.ConnID]Share, len(ps))
	for _, p := range ps {
		var pct float64
		if total > 0 {
			pct = p.SpeakingTime / total * 100
		}
		out[p.ID] = Share{Name: p.Name, Seconds: p.SpeakingTime, Percentage: pct}
	}
	return out
}

// MeetingInsights never fails; an empty room yields zero values.
func MeetingInsights(ps []domain.Participant, attention map[domain.ConnID][]float64, start, now time.Time) Insights {
	in := Insights{
		TotalParticipants:    len(ps),
		MeetingDuration:      now.Sub(start).Seconds(),
		SpeakingDistribution: SpeakingDistribution(ps),
	}
	if len(ps) == 0 {
		return in
	}
	in.AvgEngagement = lo.SumBy(ps, func(p domain.Participant) float64 { return p.Engagement }) / float64(len(ps))
	in.AvgAttention = mean(lo.FlatMap(ps, func(p domain.Participant, _ int) []float64 { return attention[p.ID] }))

	board := Leaderboard(ps, attention)
	in.MostEngaged = &board[0]
	if len(board) > 1 {
		in.LeastEngaged = &board[len(board)-1]
	}
	return in
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return lo.Sum(xs) / float64(len(xs))
}
