package orch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

const joinAttempts = 3

// Join puts id into roomID, creating the room on first reference. The joiner
// receives the current peers; the peers are told about the joiner. Joining a
// room twice only refreshes the peer list.
func (o *Orchestrator) Join(id domain.ConnID, roomID domain.RoomID, name string) ([]Peer, error) {
	if name != "" {
		if err := o.Registry.SetName(id, name); err != nil {
			log.Debug().Err(err).Str("module", "app.orch").Str("conn", string(id)).Msg("join name rejected, keeping current")
		}
	}
	name = o.Registry.Name(id)

	for range joinAttempts {
		room, _ := o.Rooms.GetOrCreate(roomID)
		others, joined, err := room.Join(id, name, o.now())
		if errors.Is(err, app.ErrRoomClosed) {
			// deleted between lookup and join; the next lookup creates a fresh room
			continue
		}
		if err != nil {
			return nil, err
		}
		o.Registry.AddRoom(id, roomID)

		peers := peersOf(others)
		o.send(roomID, id, existingPeersMsg{Type: MsgExistingPeers, Room: roomID, Peers: peers})
		if joined {
			o.broadcast(room, id, peerMsg{Type: MsgNewPeer, Room: roomID, Peer: Peer{ID: id, Name: name}})
		}
		return peers, nil
	}
	return nil, fmt.Errorf("join %s: %w", roomID, app.ErrRoomClosed)
}

// Leave removes id from roomID. Unknown rooms and non-members are ignored.
func (o *Orchestrator) Leave(id domain.ConnID, roomID domain.RoomID) {
	o.Registry.RemoveRoom(id, roomID)
	o.leave(id, roomID)
}

func (o *Orchestrator) leave(id domain.ConnID, roomID domain.RoomID) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return
	}
	p, _ := room.Participant(id)
	removed, remaining := room.Leave(id)
	if !removed {
		return
	}
	if remaining > 0 {
		o.broadcast(room, id, peerMsg{Type: MsgPeerLeft, Room: roomID, Peer: Peer{ID: id, Name: p.Name}})
		return
	}
	o.Rooms.DeleteIfEmpty(room)
}

// Relay forwards an offer, answer or ICE candidate to one peer, tagged with
// the sender. The payload is never inspected. A target that is not connected
// is a no-op.
func (o *Orchestrator) Relay(kind RelayKind, roomID domain.RoomID, from, to domain.ConnID, payload json.RawMessage) bool {
	if _, ok := o.Registry.Conn(to); !ok {
		log.Debug().Str("module", "app.orch").Str("kind", string(kind)).Str("room", string(roomID)).
			Str("conn", string(to)).Msg("relay target not connected")
		return false
	}
	msg := relayMsg{Type: kind, Room: roomID, From: from}
	if kind == RelayCandidate {
		msg.Candidate = payload
	} else {
		msg.SDP = payload
	}
	return o.send(roomID, to, msg)
}
