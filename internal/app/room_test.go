package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/analytics/sentiment"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testRoom() *Room {
	return newRoom(context.Background(), "r1", t0, DefaultRoomOptions())
}

func TestRoom_JoinReturnsPeers(t *testing.T) {
	req := require.New(t)
	r := testRoom()

	peers, joined, err := r.Join("a", "Ada", t0)
	req.NoError(err)
	req.True(joined)
	req.Empty(peers)

	peers, joined, err = r.Join("b", "", t0.Add(time.Second))
	req.NoError(err)
	req.True(joined)
	req.Len(peers, 1)
	req.Equal(domain.ConnID("a"), peers[0].ID)

	p, ok := r.Participant("b")
	req.True(ok)
	req.Equal(domain.DefaultEngagement, p.Engagement)
	req.Equal("User b", p.Name)
}

func TestRoom_RepeatedJoinKeepsState(t *testing.T) {
	req := require.New(t)
	r := testRoom()
	_, _, _ = r.Join("a", "Ada", t0)
	_, _ = r.RecordInteraction("a", t0)

	_, joined, err := r.Join("a", "Ada L.", t0.Add(time.Minute))

	req.NoError(err)
	req.False(joined)
	req.Equal(1, r.Count())
	p, _ := r.Participant("a")
	req.Equal("Ada L.", p.Name)
	req.InDelta(0.55, p.Engagement, 1e-9)
}

func TestRoom_RecordUtterance(t *testing.T) {
	req := require.New(t)
	r := testRoom()
	_, _, _ = r.Join("a", "Ada", t0)

	res, err := r.RecordUtterance(Utterance{
		ID: "e1", Speaker: "a", Text: "this is great", At: t0, Source: domain.SourceClient, Sentiment: 0.4, Words: 3,
	}, t0.Add(time.Second))

	req.NoError(err)
	req.Equal(1, res.Length)
	req.Nil(res.Alert)
	req.Equal("Ada", res.Entry.SpeakerName)
	req.Equal(0.4, res.Entry.Sentiment)
	p, _ := r.Participant("a")
	req.InDelta(1.5, p.SpeakingTime, 1e-9)
	req.InDelta(0.56, p.Engagement, 1e-9)
	req.Equal(t0.Add(time.Second), p.LastActivity)
	req.Len(r.SentimentHistory(), 1)
}

func TestRoom_UnknownSpeakerGetsDefaultName(t *testing.T) {
	req := require.New(t)
	r := testRoom()

	res, err := r.RecordUtterance(Utterance{Speaker: "0123456789", Text: "hi", At: t0}, t0)

	req.NoError(err)
	req.Equal("User 01234567", res.Entry.SpeakerName)
}

func TestRoom_SentimentAlert(t *testing.T) {
	req := require.New(t)
	r := testRoom()

	var last UtteranceResult
	for _, s := range []float64{-0.6, -0.8, -0.55} {
		res, err := r.RecordUtterance(Utterance{Speaker: "a", Text: "bad", At: t0, Sentiment: s}, t0)
		req.NoError(err)
		last = res
	}

	req.NotNil(last.Alert)
	req.Equal(sentiment.SeverityMedium, last.Alert.Severity)
}

func TestRoom_AttentionBounded(t *testing.T) {
	req := require.New(t)
	r := testRoom()
	_, _, _ = r.Join("a", "", t0)

	for i := range 30 {
		_, ok := r.RecordAttention("a", float64(i%2)+0.5, t0)
		req.True(ok)
	}
	_, ok := r.RecordAttention("ghost", 1, t0)
	req.False(ok)

	snap := r.Snapshot()
	req.Len(snap.Attention["a"], domain.AttentionHistoryCap)
	for _, v := range snap.Attention["a"] {
		req.LessOrEqual(v, 1.0)
	}
}

func TestRoom_NetworkOverwrites(t *testing.T) {
	req := require.New(t)
	r := testRoom()
	_, _, _ = r.Join("a", "", t0)

	req.True(r.RecordNetwork("a", domain.NetworkSample{RTT: 10, Mode: domain.ModeNormal}))
	req.True(r.RecordNetwork("a", domain.NetworkSample{RTT: 500, Mode: domain.ModeDegradeVideo}))
	req.False(r.RecordNetwork("ghost", domain.NetworkSample{}))

	req.Equal(500.0, r.NetworkSamples()["a"].RTT)
}

func TestRoom_ClosedRejectsWrites(t *testing.T) {
	req := require.New(t)
	r := testRoom()

	req.True(r.closeIfEmpty())

	_, _, err := r.Join("a", "", t0)
	req.ErrorIs(err, ErrRoomClosed)
	_, err = r.RecordUtterance(Utterance{Speaker: "a", Text: "x"}, t0)
	req.ErrorIs(err, ErrRoomClosed)
	req.ErrorIs(r.SubmitAudio(domain.AudioChunk{}), ErrRoomClosed)
	select {
	case <-r.Done():
	default:
		req.Fail("room context not cancelled")
	}
}

func TestRoom_ConcurrentEvents(t *testing.T) {
	req := require.New(t)
	r := testRoom()
	ids := []domain.ConnID{"a", "b", "c", "d"}
	for _, id := range ids {
		_, _, _ = r.Join(id, "", t0)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id domain.ConnID) {
			defer wg.Done()
			for i := range 200 {
				_, _ = r.RecordAttention(id, float64(i%3)/2, t0)
				_, _ = r.RecordInteraction(id, t0)
				_, _ = r.RecordUtterance(Utterance{Speaker: id, Text: "ok", At: t0, Sentiment: 2, Words: 40}, t0)
			}
		}(id)
	}
	wg.Wait()

	req.Len(r.Transcript(), 800)
	req.Len(r.SentimentHistory(), domain.SentimentHistoryCap)
	for _, p := range r.Participants() {
		req.GreaterOrEqual(p.Engagement, 0.0)
		req.LessOrEqual(p.Engagement, 1.0)
	}
}
