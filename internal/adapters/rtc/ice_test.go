package rtc

import (
	"testing"

	"github.com/dkeye/Huddle/internal/config"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

func TestICEServers(t *testing.T) {
	req := require.New(t)

	req.Equal(DefaultICEServers(), ICEServers(nil))

	got := ICEServers([]config.ICEServer{
		{URLs: []string{"stun:stun.example.org:3478"}},
		{URLs: []string{"turn:turn.example.org:3478?transport=udp"}, Username: "u", Credential: "p"},
	})

	req.Len(got, 2)
	req.Empty(got[0].Username)
	req.Equal("p", got[1].Credential)
	req.Equal(webrtc.ICECredentialTypePassword, got[1].CredentialType)
	req.Len(Configuration(got).ICEServers, 2)
}
