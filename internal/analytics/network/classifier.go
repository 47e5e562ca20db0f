// Package network maps connection telemetry to a suggested media mode.
package network

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

// Missing telemetry assumes a healthy link.
const (
	DefaultRTT        = 0.0
	DefaultPacketLoss = 0.0
	DefaultBandwidth  = 1000.0
)

// rule is one row of the decision list; the first match wins.
type rule struct {
	mode     domain.Mode
	minLoss  float64
	minBW    float64
	minRTT   float64
	checkRTT bool
}

var rules = []rule{
	{mode: domain.ModeCaptionsOnly, minLoss: 0.20, minBW: 100},
	{mode: domain.ModeAudioOnly, minLoss: 0.10, minBW: 200},
	{mode: domain.ModeDegradeVideo, minLoss: 0.05, minBW: 400, minRTT: 300, checkRTT: true},
}

// Classify takes rtt in ms, packetLoss as a ratio and bandwidth in kbps.
func Classify(rtt, packetLoss, bandwidth float64) domain.Mode {
	for _, r := range rules {
		if packetLoss >= r.minLoss || bandwidth < r.minBW || (r.checkRTT && rtt >= r.minRTT) {
			return r.mode
		}
	}
	return domain.ModeNormal
}

// Stats is telemetry as reported by a client; any field may be absent.
type Stats struct {
	RTT        *float64 `json:"rtt,omitempty" validate:"omitempty,gte=0"`
	PacketLoss *float64 `json:"packetLoss,omitempty" validate:"omitempty,gte=0,lte=1"`
	Bandwidth  *float64 `json:"bandwidth,omitempty" validate:"omitempty,gte=0"`
}

// Sample fills absent fields with defaults and classifies the result.
// A zero bandwidth is reported by browsers before the first estimate and is
// treated as absent.
func (s Stats) Sample(now time.Time) domain.NetworkSample {
	rtt, loss, bw := DefaultRTT, DefaultPacketLoss, DefaultBandwidth
	if s.RTT != nil {
		rtt = *s.RTT
	}
	if s.PacketLoss != nil {
		loss = min(1, max(0, *s.PacketLoss))
	}
	if s.Bandwidth != nil && *s.Bandwidth > 0 {
		bw = *s.Bandwidth
	}
	return domain.NetworkSample{
		RTT:        rtt,
		PacketLoss: loss,
		Bandwidth:  bw,
		Mode:       Classify(rtt, loss, bw),
		Timestamp:  now,
	}
}

// Suggestion is the adaptation message text shown to the user.
func Suggestion(m domain.Mode) string {
	switch m {
	case domain.ModeCaptionsOnly:
		return "Connection is very poor. Switching to captions only."
	case domain.ModeAudioOnly:
		return "Connection is unstable. Video paused, audio only."
	case domain.ModeDegradeVideo:
		return "Connection is slow. Lowering video quality."
	default:
		return "Connection is good."
	}
}
