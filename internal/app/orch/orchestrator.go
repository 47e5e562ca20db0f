// Package orch is the room event path: it turns signaling events into
// registry mutations, analytics updates and outbound messages.
package orch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Huddle/internal/analytics/engagement"
	"github.com/dkeye/Huddle/internal/analytics/sentiment"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/pipeline"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	autoSummaryEvery      = 20
	DefaultSummaryTimeout = 60 * time.Second
)

type Config struct {
	Pipeline       pipeline.Config
	Rooms          app.RoomOptions
	NudgeAfter     time.Duration
	SummaryTimeout time.Duration
}

type Orchestrator struct {
	Registry    *app.Registry
	Rooms       *app.RoomManager
	Policy      app.Policy
	Analyzer    *sentiment.Analyzer
	Transcriber core.Transcriber
	Summarizer  core.Summarizer

	cfg       Config
	startedAt time.Time
	now       func() time.Time
	newID     func() string
}

// New wires an orchestrator whose rooms transcribe through transcriber and
// feed results back into HandleTranscript. Rooms live until ctx is done or
// Close is called.
func New(ctx context.Context, policy app.Policy, transcriber core.Transcriber, summarizer core.Summarizer, cfg Config) *Orchestrator {
	if cfg.NudgeAfter <= 0 {
		cfg.NudgeAfter = engagement.DefaultNudgeAfter
	}
	if cfg.SummaryTimeout <= 0 {
		cfg.SummaryTimeout = DefaultSummaryTimeout
	}
	if cfg.Rooms == (app.RoomOptions{}) {
		cfg.Rooms = app.DefaultRoomOptions()
	}
	o := &Orchestrator{
		Registry:    app.NewRegistry(),
		Policy:      policy,
		Analyzer:    sentiment.NewAnalyzer(sentiment.DefaultLexicon()),
		Transcriber: transcriber,
		Summarizer:  summarizer,
		cfg:         cfg,
		startedAt:   time.Now(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	o.Rooms = app.NewRoomManager(ctx, cfg.Rooms, o.newPipeline)
	return o
}

// Close stops every room worker.
func (o *Orchestrator) Close() {
	o.Rooms.Close()
}

// Connect registers an outbound connection. The returned name is the one
// peers will see.
func (o *Orchestrator) Connect(id domain.ConnID, conn core.SignalConnection, name string, cancel context.CancelFunc) string {
	o.Registry.Bind(id, conn, name, cancel)
	return o.Registry.Name(id)
}

// Disconnect removes id from every room it joined. Calling it again is a no-op.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	rooms, ok := o.Registry.Unbind(id)
	if !ok {
		return
	}
	for _, room := range rooms {
		o.leave(id, room)
	}
	log.Info().Str("module", "app.orch").Str("conn", string(id)).Int("rooms", len(rooms)).Msg("disconnected")
}

func (o *Orchestrator) send(room domain.RoomID, to domain.ConnID, msg any) bool {
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("marshal outbound")
		return false
	}
	return o.deliver(room, to, frame)
}

// broadcast encodes msg once and sends it to every participant of room but
// except. Participants are read as a snapshot; no room lock is held while
// sending.
func (o *Orchestrator) broadcast(room *app.Room, except domain.ConnID, msg any) int {
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("marshal outbound")
		return 0
	}
	sent := 0
	for _, id := range room.ParticipantIDs() {
		if id == except {
			continue
		}
		if o.deliver(room.ID(), id, frame) {
			sent++
		}
	}
	return sent
}

func (o *Orchestrator) deliver(room domain.RoomID, to domain.ConnID, frame core.Frame) bool {
	conn, ok := o.Registry.Conn(to)
	if !ok {
		return false
	}
	err := conn.TrySend(frame)
	if err == nil {
		o.Registry.ResetDropped(to)
		return true
	}
	if !errors.Is(err, core.ErrBackpressure) {
		log.Debug().Err(err).Str("module", "app.orch").Str("conn", string(to)).Msg("send failed")
		return false
	}
	dropped := o.Registry.MarkDropped(to)
	log.Warn().Str("module", "app.orch").Str("room", string(room)).Str("conn", string(to)).
		Int("dropped", dropped).Msg("outbound buffer full, frame dropped")
	if o.Policy != nil && o.Policy.OnBackPressure(room, to, dropped) == app.KickMember {
		o.Registry.Cancel(to)
	}
	return false
}
