package signal

import (
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleRelay forwards offer, answer and ICE candidates between browsers.
// Negotiation is entirely theirs; only the envelope is checked here.
func (ctl *SignalWSController) handleRelay(id domain.ConnID, conn *WsSignalConn, kind string, data []byte) {
	var p relayPayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad relay payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	payload := p.SDP
	if kind == EvICECandidate {
		payload = p.Candidate
	}
	if len(payload) == 0 {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.Relay(orch.RelayKind(kind), domain.RoomID(p.Room), id, domain.ConnID(p.To), payload)
}
