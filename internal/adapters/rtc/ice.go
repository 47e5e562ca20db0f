// Package rtc holds the WebRTC settings handed to browsers. Media never
// passes through the server; peers connect to each other directly.
package rtc

import (
	"github.com/dkeye/Huddle/internal/config"
	"github.com/pion/webrtc/v4"
)

const DefaultSTUN = "stun:stun.l.google.com:19302"

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{{URLs: []string{DefaultSTUN}}}
}

// ICEServers converts configured servers; an empty list yields the default
// public STUN server.
func ICEServers(servers []config.ICEServer) []webrtc.ICEServer {
	if len(servers) == 0 {
		return DefaultICEServers()
	}
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		ice := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
		if s.Credential != "" {
			ice.Credential = s.Credential
			ice.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, ice)
	}
	return out
}

// Configuration is what a peer connection would be created with.
func Configuration(servers []webrtc.ICEServer) webrtc.Configuration {
	return webrtc.Configuration{ICEServers: servers}
}
