package signal

import (
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p joinPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.joins.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("join rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("join")
	if _, err := ctl.Orch.Join(id, domain.RoomID(p.Room), p.Name); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", p.Room).Msg("join failed")
		ctl.sendError(conn, "join_failed")
	}
}

// handleLeave leaves one room; the connection stays open.
func (ctl *SignalWSController) handleLeave(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p leavePayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("leave")
	ctl.Orch.Leave(id, domain.RoomID(p.Room))
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
		"room": p.Room,
	})
}
