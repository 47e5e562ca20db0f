package network

import (
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		rtt       float64
		loss      float64
		bandwidth float64
		want      domain.Mode
	}{
		{"healthy", 0, 0, 1000, domain.ModeNormal},
		{"heavy loss", 0, 0.25, 1000, domain.ModeCaptionsOnly},
		{"moderate loss", 0, 0.12, 1000, domain.ModeAudioOnly},
		{"high rtt", 350, 0, 1000, domain.ModeDegradeVideo},
		{"tiny bandwidth", 0, 0, 99, domain.ModeCaptionsOnly},
		{"low bandwidth", 0, 0, 150, domain.ModeAudioOnly},
		{"limited bandwidth", 0, 0, 399, domain.ModeDegradeVideo},
		{"light loss", 0, 0.05, 1000, domain.ModeDegradeVideo},
		{"loss boundary is inclusive", 0, 0.20, 1000, domain.ModeCaptionsOnly},
		{"bandwidth boundary is exclusive", 0, 0, 400, domain.ModeNormal},
		{"rtt just below", 299, 0.04, 400, domain.ModeNormal},
		{"most severe wins", 500, 0.3, 50, domain.ModeCaptionsOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.rtt, tt.loss, tt.bandwidth))
		})
	}
}

func TestStats_SampleDefaults(t *testing.T) {
	req := require.New(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// Given no telemetry at all
	s := Stats{}.Sample(now)

	// Then the link is assumed healthy
	req.Equal(DefaultBandwidth, s.Bandwidth)
	req.Equal(domain.ModeNormal, s.Mode)
	req.Equal(now, s.Timestamp)

	rtt, loss := 320.0, 1.5
	s = Stats{RTT: &rtt, PacketLoss: &loss}.Sample(now)
	req.Equal(1.0, s.PacketLoss)
	req.Equal(domain.ModeCaptionsOnly, s.Mode)
}
