package signal

import (
	"encoding/base64"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleAudio decodes a chunk and queues it for transcription. Malformed
// audio is dropped without an answer.
func (ctl *SignalWSController) handleAudio(id domain.ConnID, _ *WsSignalConn, data []byte) {
	var p audioPayload
	if err := decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad audio chunk")
		return
	}
	if !ctl.audio.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("audio rate limited")
		return
	}
	raw, err := base64.StdEncoding.DecodeString(p.Audio)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("audio chunk not base64")
		return
	}
	_ = ctl.Orch.SubmitAudio(id, domain.RoomID(p.Room), raw, fromMillis(p.Timestamp), p.Sequence)
}

func (ctl *SignalWSController) handleTranscript(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p transcriptPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad transcript payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.TranscriptText(id, domain.RoomID(p.Room), p.Text, fromMillis(p.Timestamp))
}

func (ctl *SignalWSController) handleAttention(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p attentionPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad attention payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.Attention(id, domain.RoomID(p.Room), *p.Score)
}

func (ctl *SignalWSController) handleNetwork(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p networkPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad network payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.Network(id, domain.RoomID(p.Room), p.Stats)
}

func (ctl *SignalWSController) handleInteraction(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p interactionPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad interaction payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.Interaction(id, domain.RoomID(p.Room), p.Kind)
}

// fromMillis maps 0 to the zero time so the receiver stamps it.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
