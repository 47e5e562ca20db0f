package app

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/analytics/engagement"
	"github.com/dkeye/Huddle/internal/analytics/sentiment"
	"github.com/dkeye/Huddle/internal/app/pipeline"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrRoomClosed is returned when a room was deleted while the caller held it.
var ErrRoomClosed = errors.New("room closed")

type RoomOptions struct {
	AlertThreshold float64
	AlertWindow    int
	SentimentCap   int
}

func DefaultRoomOptions() RoomOptions {
	return RoomOptions{
		AlertThreshold: sentiment.DefaultAlertThreshold,
		AlertWindow:    sentiment.DefaultAlertWindow,
		SentimentCap:   domain.SentimentHistoryCap,
	}
}

// Room is a threadsafe in-memory meeting. All state is guarded by mu; the
// transcription pipeline runs under ctx, which is cancelled when the room is
// deleted.
type Room struct {
	id        domain.RoomID
	createdAt time.Time
	opts      RoomOptions
	ctx       context.Context
	cancel    context.CancelFunc
	pipeline  *pipeline.Pipeline

	mu           sync.RWMutex
	closed       bool
	participants map[domain.ConnID]*domain.Participant
	transcript   []domain.TranscriptEntry
	sentiment    *sentiment.History
	attention    map[domain.ConnID][]float64
	network      map[domain.ConnID]domain.NetworkSample
}

func newRoom(parent context.Context, id domain.RoomID, now time.Time, opts RoomOptions) *Room {
	ctx, cancel := context.WithCancel(parent)
	return &Room{
		id:           id,
		createdAt:    now,
		opts:         opts,
		ctx:          ctx,
		cancel:       cancel,
		participants: make(map[domain.ConnID]*domain.Participant),
		sentiment:    sentiment.NewHistory(opts.SentimentCap),
		attention:    make(map[domain.ConnID][]float64),
		network:      make(map[domain.ConnID]domain.NetworkSample),
	}
}

func (r *Room) ID() domain.RoomID     { return r.id }
func (r *Room) CreatedAt() time.Time  { return r.createdAt }
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

// Join adds a participant and returns the ids of everyone else. A repeated
// join only refreshes the display name and reports joined=false.
func (r *Room) Join(id domain.ConnID, name string, now time.Time) (peers []domain.Participant, joined bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrRoomClosed
	}
	for pid, p := range r.participants {
		if pid != id {
			peers = append(peers, *p)
		}
	}
	if p, ok := r.participants[id]; ok {
		if name != "" {
			p.Name = domain.ResolveDisplayName(id, name)
		}
		return peers, false, nil
	}
	r.participants[id] = domain.NewParticipant(id, name, now)
	log.Info().Str("module", "app.room").Str("room", string(r.id)).Str("conn", string(id)).Msg("participant joined")
	return peers, true, nil
}

// Leave removes a participant and reports how many remain.
func (r *Room) Leave(id domain.ConnID) (removed bool, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[id]; ok {
		delete(r.participants, id)
		delete(r.attention, id)
		delete(r.network, id)
		removed = true
		log.Info().Str("module", "app.room").Str("room", string(r.id)).Str("conn", string(id)).Msg("participant left")
	}
	return removed, len(r.participants)
}

func (r *Room) Has(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.participants[id]
	return ok
}

func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

func (r *Room) ParticipantIDs() []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Collect(maps.Keys(r.participants))
}

// Participants returns copies ordered by join time.
func (r *Room) Participants() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participantsLocked()
}

func (r *Room) participantsLocked() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b domain.Participant) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r *Room) Participant(id domain.ConnID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

// Utterance is one line of speech entering the transcript.
type Utterance struct {
	ID        string
	Speaker   domain.ConnID
	Text      string
	At        time.Time
	Source    domain.TranscriptSource
	Language  string
	Sentiment float64
	Words     int
}

type UtteranceResult struct {
	Entry  domain.TranscriptEntry
	Alert  *sentiment.Alert
	Length int
}

// RecordUtterance appends to the transcript and sentiment history and credits
// the speaker with speaking activity when present in the room.
func (r *Room) RecordUtterance(u Utterance, now time.Time) (UtteranceResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return UtteranceResult{}, ErrRoomClosed
	}

	name := domain.DefaultDisplayName(u.Speaker)
	if p, ok := r.participants[u.Speaker]; ok {
		name = p.Name
		engagement.Apply(p, engagement.Speaking, float64(u.Words), now)
	}
	se := r.sentiment.Record(u.At, u.Sentiment, u.Text, u.Speaker)
	entry := domain.TranscriptEntry{
		ID:          u.ID,
		Timestamp:   u.At,
		Text:        u.Text,
		Speaker:     u.Speaker,
		SpeakerName: name,
		Sentiment:   se.Score,
		Source:      u.Source,
		Language:    u.Language,
	}
	r.transcript = append(r.transcript, entry)

	res := UtteranceResult{Entry: entry, Length: len(r.transcript)}
	if alert, ok := sentiment.DetectAlert(r.sentiment.Last(r.opts.AlertWindow), r.opts.AlertThreshold, r.opts.AlertWindow); ok {
		res.Alert = &alert
	}
	return res, nil
}

// RecordAttention stores a sample and smooths the participant's engagement
// toward it. Samples from non-participants are ignored.
func (r *Room) RecordAttention(id domain.ConnID, score float64, now time.Time) (engagementScore float64, ok bool) {
	score = engagement.Clamp(score)
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return 0, false
	}
	hist := append(r.attention[id], score)
	if over := len(hist) - domain.AttentionHistoryCap; over > 0 {
		hist = append(hist[:0:0], hist[over:]...)
	}
	r.attention[id] = hist
	engagement.Apply(p, engagement.Attention, score, now)
	return p.Engagement, true
}

func (r *Room) RecordInteraction(id domain.ConnID, now time.Time) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return 0, false
	}
	engagement.Apply(p, engagement.Interaction, 0, now)
	return p.Engagement, true
}

// RecordNetwork keeps only the latest sample per participant.
func (r *Room) RecordNetwork(id domain.ConnID, s domain.NetworkSample) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[id]; !ok {
		return false
	}
	r.network[id] = s
	return true
}

func (r *Room) Transcript() []domain.TranscriptEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.transcript)
}

func (r *Room) SentimentHistory() []domain.SentimentEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sentiment.Entries()
}

func (r *Room) NetworkSamples() map[domain.ConnID]domain.NetworkSample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.network)
}

// Snapshot is a consistent copy of the state engagement views need.
type Snapshot struct {
	ID           domain.RoomID
	CreatedAt    time.Time
	Participants []domain.Participant
	Attention    map[domain.ConnID][]float64
	Transcript   int
}

func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	att := make(map[domain.ConnID][]float64, len(r.attention))
	for id, h := range r.attention {
		att[id] = slices.Clone(h)
	}
	return Snapshot{
		ID:           r.id,
		CreatedAt:    r.createdAt,
		Participants: r.participantsLocked(),
		Attention:    att,
		Transcript:   len(r.transcript),
	}
}

func (r *Room) Info() domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.RoomInfo{
		ID:           r.id,
		Participants: len(r.participants),
		Transcript:   len(r.transcript),
		CreatedAt:    r.createdAt.Unix(),
	}
}

// SubmitAudio queues a chunk and makes sure the room's worker runs.
func (r *Room) SubmitAudio(c domain.AudioChunk) error {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed || r.pipeline == nil {
		return ErrRoomClosed
	}
	r.pipeline.Submit(c)
	if r.pipeline.Start(r.ctx) {
		log.Info().Str("module", "app.room").Str("room", string(r.id)).Msg("transcription started")
	}
	return nil
}

func (r *Room) Transcribing() bool {
	return r.pipeline != nil && r.pipeline.Running()
}

// closeIfEmpty marks an empty room closed and stops its worker.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.participants) > 0 {
		return false
	}
	r.closed = true
	r.cancel()
	return true
}

func (r *Room) forceClose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cancel()
}
