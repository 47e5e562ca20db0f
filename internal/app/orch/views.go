package orch

import (
	"context"
	"strings"
	"time"

	"github.com/dkeye/Huddle/internal/analytics/engagement"
	"github.com/dkeye/Huddle/internal/analytics/sentiment"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/samber/lo"
)

const (
	sentimentViewLen   = 50
	sentimentSnippet   = 50
	sentimentOverallOf = 10
	noTranscript       = "No transcript available for summarization."
)

type TranscriptReport struct {
	Room         domain.RoomID            `json:"room"`
	Transcript   []domain.TranscriptEntry `json:"transcript"`
	Participants []Peer                   `json:"participants"`
	Length       int                      `json:"total_entries"`
}

func (o *Orchestrator) TranscriptView(roomID domain.RoomID) (TranscriptReport, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return TranscriptReport{}, ErrUnknownRoom
	}
	entries := room.Transcript()
	return TranscriptReport{
		Room:         roomID,
		Transcript:   entries,
		Participants: peersOf(room.Participants()),
		Length:       len(entries),
	}, nil
}

type SentimentPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Score     float64         `json:"score"`
	Trend     sentiment.Trend `json:"trend"`
	Text      string          `json:"text"`
	Speaker   domain.ConnID   `json:"speaker,omitempty"`
}

type SentimentReport struct {
	Room         domain.RoomID    `json:"room"`
	History      []SentimentPoint `json:"sentiment_history"`
	Overall      float64          `json:"overall_sentiment"`
	OverallTrend sentiment.Trend  `json:"overall_trend"`
	Graph        sentiment.Graph  `json:"graph"`
}

// SentimentView shows the latest entries with a per-entry trend. Overall is
// the average of the most recent ten.
func (o *Orchestrator) SentimentView(roomID domain.RoomID) (SentimentReport, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return SentimentReport{}, ErrUnknownRoom
	}
	entries := room.SentimentHistory()
	recent := entries[max(0, len(entries)-sentimentViewLen):]
	overall := sentiment.Average(entries[max(0, len(entries)-sentimentOverallOf):])
	return SentimentReport{
		Room: roomID,
		History: lo.Map(recent, func(e domain.SentimentEntry, _ int) SentimentPoint {
			return SentimentPoint{
				Timestamp: e.Timestamp,
				Score:     e.Score,
				Trend:     sentiment.Classify(e.Score),
				Text:      sentiment.Truncate(e.Text, sentimentSnippet),
				Speaker:   e.Speaker,
			}
		}),
		Overall:      overall,
		OverallTrend: sentiment.Classify(overall),
		Graph:        sentiment.BuildGraph(entries, o.now(), sentiment.GraphWindow),
	}, nil
}

// SpeakerSentiment summarizes one speaker's recorded sentiment in a room.
func (o *Orchestrator) SpeakerSentiment(roomID domain.RoomID, speaker domain.ConnID) (sentiment.SpeakerSentiment, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return sentiment.SpeakerSentiment{}, ErrUnknownRoom
	}
	return sentiment.ForSpeaker(room.SentimentHistory(), speaker), nil
}

type EngagementReport struct {
	Room        domain.RoomID         `json:"room"`
	Leaderboard []engagement.Standing `json:"leaderboard"`
	Insights    engagement.Insights   `json:"insights"`
}

func (o *Orchestrator) EngagementView(roomID domain.RoomID) (EngagementReport, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return EngagementReport{}, ErrUnknownRoom
	}
	snap := room.Snapshot()
	return EngagementReport{
		Room:        roomID,
		Leaderboard: engagement.Leaderboard(snap.Participants, snap.Attention),
		Insights:    engagement.MeetingInsights(snap.Participants, snap.Attention, snap.CreatedAt, o.now()),
	}, nil
}

type SummaryReport struct {
	Room     domain.RoomID       `json:"room"`
	Result   string              `json:"summary"`
	Backend  string              `json:"backend"`
	Insights engagement.Insights `json:"insights"`
	// Transcript is the flattened text that was summarized.
	Transcript string `json:"-"`
}

// Summarize condenses the room transcript. An empty transcript is answered
// without calling the backend.
func (o *Orchestrator) Summarize(ctx context.Context, roomID domain.RoomID, opts core.SummaryOptions) (SummaryReport, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return SummaryReport{}, ErrUnknownRoom
	}
	snap := room.Snapshot()
	rep := SummaryReport{
		Room:       roomID,
		Insights:   engagement.MeetingInsights(snap.Participants, snap.Attention, snap.CreatedAt, o.now()),
		Transcript: Flatten(room.Transcript()),
	}
	if strings.TrimSpace(rep.Transcript) == "" || o.Summarizer == nil {
		rep.Result = noTranscript
		rep.Backend = "none"
		return rep, nil
	}
	ctx, cancel := context.WithTimeout(ctx, o.cfg.SummaryTimeout)
	defer cancel()
	out, err := o.Summarizer.Summarize(ctx, rep.Transcript, opts)
	if err != nil {
		return SummaryReport{}, err
	}
	rep.Result = out
	rep.Backend = o.Summarizer.Name()
	return rep, nil
}

// Flatten joins entry texts with single spaces.
func Flatten(entries []domain.TranscriptEntry) string {
	return strings.Join(lo.Map(entries, func(e domain.TranscriptEntry, _ int) string { return e.Text }), " ")
}

type TranscriptionStatus struct {
	Backend string    `json:"backend"`
	Stats   app.Stats `json:"stats"`
	Uptime  float64   `json:"uptime_seconds"`
}

func (o *Orchestrator) Status() TranscriptionStatus {
	backend := "none"
	if o.Transcriber != nil {
		backend = o.Transcriber.Name()
	}
	return TranscriptionStatus{
		Backend: backend,
		Stats:   o.Rooms.Stats(),
		Uptime:  o.now().Sub(o.startedAt).Seconds(),
	}
}
