package domain

import "time"

type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeDegradeVideo Mode = "degrade-video"
	ModeAudioOnly    Mode = "audio-only"
	ModeCaptionsOnly Mode = "captions-only"
)

// NetworkSample is the latest telemetry of one participant.
type NetworkSample struct {
	RTT        float64   `json:"rtt"`
	PacketLoss float64   `json:"packet_loss"`
	Bandwidth  float64   `json:"bandwidth"`
	Mode       Mode      `json:"mode"`
	Timestamp  time.Time `json:"timestamp"`
}
