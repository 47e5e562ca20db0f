package orch

import (
	"github.com/dkeye/Huddle/internal/analytics/engagement"
	"github.com/dkeye/Huddle/internal/analytics/network"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

const nudgeMessage = "You've been quiet for a while. Want to share your thoughts?"

// Attention stores an attention sample from the external estimator and
// tells the room the sender's new engagement.
func (o *Orchestrator) Attention(id domain.ConnID, roomID domain.RoomID, score float64) (float64, bool) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return 0, false
	}
	eng, ok := room.RecordAttention(id, score, o.now())
	if !ok {
		return 0, false
	}
	o.broadcast(room, "", attentionMsg{
		Type:       MsgAttention,
		Room:       roomID,
		Conn:       id,
		Attention:  engagement.Clamp(score),
		Engagement: eng,
	})
	return eng, true
}

// Interaction credits a reaction, chat message or raised hand.
func (o *Orchestrator) Interaction(id domain.ConnID, roomID domain.RoomID, kind string) (float64, bool) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return 0, false
	}
	eng, ok := room.RecordInteraction(id, o.now())
	if ok {
		log.Debug().Str("module", "app.orch").Str("room", string(roomID)).Str("conn", string(id)).
			Str("kind", kind).Float64("engagement", eng).Msg("interaction")
	}
	return eng, ok
}

// Network classifies telemetry and answers the sender with a suggested mode.
// The sample is kept only when the sender is in the room.
func (o *Orchestrator) Network(id domain.ConnID, roomID domain.RoomID, stats network.Stats) domain.NetworkSample {
	sample := stats.Sample(o.now())
	if room, ok := o.Rooms.Get(roomID); ok {
		room.RecordNetwork(id, sample)
	}
	o.send(roomID, id, networkMsg{
		Type:       MsgNetwork,
		Room:       roomID,
		Mode:       sample.Mode,
		Suggestion: network.Suggestion(sample.Mode),
		RTT:        sample.RTT,
		PacketLoss: sample.PacketLoss,
		Bandwidth:  sample.Bandwidth,
	})
	return sample
}

// Nudge sends a prompt to every idle, disengaged participant of roomID and
// returns who was nudged.
func (o *Orchestrator) Nudge(roomID domain.RoomID) ([]domain.ConnID, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil, ErrUnknownRoom
	}
	now := o.now()
	nudged := []domain.ConnID{}
	for _, p := range room.Participants() {
		if !engagement.ShouldNudge(p, now, o.cfg.NudgeAfter) {
			continue
		}
		o.send(roomID, p.ID, nudgeMsg{Type: MsgNudge, Room: roomID, Message: nudgeMessage})
		nudged = append(nudged, p.ID)
	}
	if len(nudged) > 0 {
		log.Info().Str("module", "app.orch").Str("room", string(roomID)).Int("nudged", len(nudged)).Msg("nudged participants")
	}
	return nudged, nil
}
