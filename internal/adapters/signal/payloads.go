package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/analytics/network"
	"github.com/go-playground/validator/v10"
)

// Inbound event types.
const (
	EvJoin         = "join"
	EvLeave        = "leave"
	EvOffer        = "offer"
	EvAnswer       = "answer"
	EvICECandidate = "ice-candidate"
	EvAudioChunk   = "audio-chunk"
	EvTranscript   = "transcript-text"
	EvAttention    = "attention"
	EvNetworkStats = "network-stats"
	EvInteraction  = "interaction"
	EvPing         = "ping"
	EvWhoAmI       = "whoami"
	EvRename       = "rename"
)

var validate = validator.New()

// decode unmarshals data into p and checks its validate tags.
func decode(data []byte, p any) error {
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

type envelope struct {
	Type string `json:"type"`
}

type joinPayload struct {
	Room string `json:"room" validate:"required,max=128"`
	Name string `json:"name,omitempty" validate:"max=128"`
}

type leavePayload struct {
	Room string `json:"room" validate:"required"`
}

// relayPayload carries the browser's SDP or candidate untouched.
type relayPayload struct {
	Room      string          `json:"room" validate:"required"`
	To        string          `json:"to" validate:"required"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type audioPayload struct {
	Room string `json:"room" validate:"required"`
	// Audio is base64 encoded.
	Audio string `json:"audio" validate:"required,base64"`
	// Timestamp is in milliseconds since the epoch.
	Timestamp int64 `json:"timestamp" validate:"gte=0"`
	Sequence  int64 `json:"sequence" validate:"gte=0"`
}

type transcriptPayload struct {
	Room      string `json:"room" validate:"required"`
	Text      string `json:"text" validate:"required,max=4096"`
	Timestamp int64  `json:"timestamp" validate:"gte=0"`
}

type attentionPayload struct {
	Room  string   `json:"room" validate:"required"`
	Score *float64 `json:"score" validate:"required"`
}

type networkPayload struct {
	Room string `json:"room" validate:"required"`
	network.Stats
}

type interactionPayload struct {
	Room string `json:"room" validate:"required"`
	Kind string `json:"kind" validate:"omitempty,oneof=reaction chat hand-raise"`
}

type renamePayload struct {
	Name string `json:"name" validate:"required"`
}
