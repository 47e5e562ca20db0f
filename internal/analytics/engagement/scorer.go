// Package engagement keeps a smoothed [0,1] activity estimate per participant
// and derives room-level leaderboards and insights from it.
package engagement

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

type Activity string

const (
	Speaking    Activity = "speaking"
	Attention   Activity = "attention"
	Interaction Activity = "interaction"
)

const (
	maxSpeakingBoost   = 0.1
	wordsPerFullBoost  = 50.0
	secondsPerWord     = 0.5
	attentionKeep      = 0.8
	attentionWeight    = 0.2
	interactionBoost   = 0.05
	DefaultNudgeAfter  = 5 * time.Minute
	nudgeScoreBelow    = 0.3
	minSpeakingWordCnt = 1
)

// Apply updates p in place for one activity event. For Speaking, value is the
// word count; for Attention it is the latest attention sample.
func Apply(p *domain.Participant, act Activity, value float64, now time.Time) {
	switch act {
	case Speaking:
		words := max(value, minSpeakingWordCnt)
		p.Engagement = min(1, p.Engagement+min(maxSpeakingBoost, words/wordsPerFullBoost))
		p.SpeakingTime += words * secondsPerWord
	case Attention:
		p.Engagement = p.Engagement*attentionKeep + Clamp(value)*attentionWeight
	case Interaction:
		p.Engagement = min(1, p.Engagement+interactionBoost)
	}
	p.Engagement = Clamp(p.Engagement)
	p.LastActivity = now
}

// ShouldNudge reports a participant that is both idle for longer than after
// and scoring below 0.3.
func ShouldNudge(p domain.Participant, now time.Time, after time.Duration) bool {
	return now.Sub(p.LastActivity) > after && p.Engagement < nudgeScoreBelow
}

func Clamp(v float64) float64 {
	return min(1, max(0, v))
}
