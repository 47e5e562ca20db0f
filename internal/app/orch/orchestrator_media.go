package orch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/pipeline"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownRoom = errors.New("unknown room")
	ErrNotInRoom   = errors.New("not a participant")
)

// newPipeline is the room manager's factory: one queue and one worker per
// room, feeding results back into HandleTranscript.
func (o *Orchestrator) newPipeline(roomID domain.RoomID) *pipeline.Pipeline {
	if o.Transcriber == nil {
		return nil
	}
	source := domain.TranscriptSource(o.Transcriber.Name())
	sink := func(_ context.Context, speaker domain.ConnID, text string, at time.Time) {
		o.HandleTranscript(roomID, speaker, text, at, source)
	}
	return pipeline.New(pipeline.NewWorker(roomID, pipeline.NewQueue(), o.Transcriber, sink, o.cfg.Pipeline))
}

// SubmitAudio queues a decoded audio chunk from a participant and starts the
// room's worker on first use.
func (o *Orchestrator) SubmitAudio(id domain.ConnID, roomID domain.RoomID, data []byte, at time.Time, seq int64) error {
	room, err := o.member(id, roomID)
	if err != nil {
		log.Debug().Err(err).Str("module", "app.orch").Str("room", string(roomID)).Str("conn", string(id)).Msg("audio chunk dropped")
		return err
	}
	if at.IsZero() {
		at = o.now()
	}
	return room.SubmitAudio(domain.AudioChunk{Speaker: id, Timestamp: at, Seq: seq, Data: data})
}

// TranscriptText records text a participant's client recognised itself.
func (o *Orchestrator) TranscriptText(id domain.ConnID, roomID domain.RoomID, text string, at time.Time) (domain.TranscriptEntry, bool) {
	if _, err := o.member(id, roomID); err != nil {
		log.Debug().Err(err).Str("module", "app.orch").Str("room", string(roomID)).Str("conn", string(id)).Msg("transcript text dropped")
		return domain.TranscriptEntry{}, false
	}
	return o.HandleTranscript(roomID, id, text, at, domain.SourceClient)
}

// HandleTranscript scores one utterance, appends it to the room transcript
// and tells the room. Blank text and unknown rooms are ignored.
func (o *Orchestrator) HandleTranscript(roomID domain.RoomID, speaker domain.ConnID, text string, at time.Time, source domain.TranscriptSource) (domain.TranscriptEntry, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.TranscriptEntry{}, false
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		log.Debug().Str("module", "app.orch").Str("room", string(roomID)).Msg("transcript for unknown room dropped")
		return domain.TranscriptEntry{}, false
	}
	if at.IsZero() {
		at = o.now()
	}
	res, err := room.RecordUtterance(app.Utterance{
		ID:        o.newID(),
		Speaker:   speaker,
		Text:      text,
		At:        at,
		Source:    source,
		Language:  detectLanguage(text),
		Sentiment: o.Analyzer.Score(text),
		Words:     len(strings.Fields(text)),
	}, o.now())
	if err != nil {
		log.Debug().Err(err).Str("module", "app.orch").Str("room", string(roomID)).Msg("transcript dropped")
		return domain.TranscriptEntry{}, false
	}

	o.broadcast(room, "", transcriptMsg{Type: MsgTranscript, Room: roomID, Entry: res.Entry})
	if res.Alert != nil {
		log.Info().Str("module", "app.orch").Str("room", string(roomID)).Str("severity", string(res.Alert.Severity)).
			Float64("avg", res.Alert.Average).Msg("sentiment alert")
		o.broadcast(room, "", alertMsg{Type: MsgSentimentAlert, Room: roomID, Alert: *res.Alert})
	}
	if res.Length%autoSummaryEvery == 0 {
		o.broadcast(room, "", autoSummaryMsg{Type: MsgAutoSummary, Room: roomID, Length: res.Length})
	}
	return res.Entry, true
}

func (o *Orchestrator) member(id domain.ConnID, roomID domain.RoomID) (*app.Room, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil, ErrUnknownRoom
	}
	if !room.Has(id) {
		return nil, ErrNotInRoom
	}
	return room, nil
}

// detectLanguage returns an ISO 639-1 code, or "" when the guess is unreliable.
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
