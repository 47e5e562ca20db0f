package signal

import (
	"errors"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, envelope{Type: "pong"})
}

func (ctl *SignalWSController) handleRename(id domain.ConnID, conn *WsSignalConn, data []byte) {
	var p renamePayload
	if err := decode(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rename payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Orch.Registry.SetName(id, p.Name); err != nil {
		code := "invalid_name"
		if errors.Is(err, domain.ErrDisplayNameEmpty) {
			code = "empty_name"
		}
		ctl.sendError(conn, code)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("name", p.Name).Msg("rename")
	ctl.handleWhoAmI(id, conn)
}

func (ctl *SignalWSController) handleWhoAmI(id domain.ConnID, conn *WsSignalConn) {
	rooms := ctl.Orch.Registry.RoomsOf(id)
	if rooms == nil {
		rooms = []domain.RoomID{}
	}
	ctl.sendJSON(conn, whoamiMsg{
		Type:  "whoami",
		Conn:  id,
		Name:  ctl.Orch.Registry.Name(id),
		Rooms: rooms,
	})
}
