package orch

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/analytics/sentiment"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/samber/lo"
)

// Outbound message types.
const (
	MsgExistingPeers  = "existing-peers"
	MsgNewPeer        = "new-peer"
	MsgPeerLeft       = "peer-left"
	MsgTranscript     = "transcript-update"
	MsgSentimentAlert = "sentiment-alert"
	MsgAutoSummary    = "auto-summary-available"
	MsgAttention      = "attention-update"
	MsgNetwork        = "network-adaptation"
	MsgNudge          = "nudge"
)

// RelayKind is a signaling payload forwarded between two peers untouched.
type RelayKind string

const (
	RelayOffer     RelayKind = "offer"
	RelayAnswer    RelayKind = "answer"
	RelayCandidate RelayKind = "ice-candidate"
)

func (k RelayKind) Valid() bool {
	switch k {
	case RelayOffer, RelayAnswer, RelayCandidate:
		return true
	}
	return false
}

type Peer struct {
	ID   domain.ConnID `json:"conn"`
	Name string        `json:"name"`
}

type existingPeersMsg struct {
	Type  string        `json:"type"`
	Room  domain.RoomID `json:"room"`
	Peers []Peer        `json:"peers"`
}

type peerMsg struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
	Peer
}

type relayMsg struct {
	Type      RelayKind       `json:"type"`
	Room      domain.RoomID   `json:"room"`
	From      domain.ConnID   `json:"from"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type transcriptMsg struct {
	Type  string                 `json:"type"`
	Room  domain.RoomID          `json:"room"`
	Entry domain.TranscriptEntry `json:"entry"`
}

type alertMsg struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
	sentiment.Alert
}

type autoSummaryMsg struct {
	Type   string        `json:"type"`
	Room   domain.RoomID `json:"room"`
	Length int           `json:"transcript_length"`
}

type attentionMsg struct {
	Type       string        `json:"type"`
	Room       domain.RoomID `json:"room"`
	Conn       domain.ConnID `json:"conn"`
	Attention  float64       `json:"attention"`
	Engagement float64       `json:"engagement"`
}

type networkMsg struct {
	Type       string        `json:"type"`
	Room       domain.RoomID `json:"room"`
	Mode       domain.Mode   `json:"mode"`
	Suggestion string        `json:"suggestion"`
	RTT        float64       `json:"rtt"`
	PacketLoss float64       `json:"packet_loss"`
	Bandwidth  float64       `json:"bandwidth"`
}

type nudgeMsg struct {
	Type    string        `json:"type"`
	Room    domain.RoomID `json:"room"`
	Message string        `json:"message"`
}

func peersOf(ps []domain.Participant) []Peer {
	return lo.Map(ps, func(p domain.Participant, _ int) Peer { return Peer{ID: p.ID, Name: p.Name} })
}
