package signal

import (
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/pion/webrtc/v4"
)

type welcomeMsg struct {
	Type       string             `json:"type"`
	Conn       domain.ConnID      `json:"conn"`
	Name       string             `json:"name"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type whoamiMsg struct {
	Type  string          `json:"type"`
	Conn  domain.ConnID   `json:"conn"`
	Name  string          `json:"name"`
	Rooms []domain.RoomID `json:"rooms"`
}
