package app

import "github.com/dkeye/Huddle/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, member domain.ConnID, dropped int) BackpressureAction
}

// SimplePolicy drops frames until a connection has missed MaxDropped of them
// in a row, then disconnects it. Zero means never disconnect.
type SimplePolicy struct {
	MaxDropped int
}

func (p SimplePolicy) OnBackPressure(_ domain.RoomID, _ domain.ConnID, dropped int) BackpressureAction {
	if p.MaxDropped > 0 && dropped >= p.MaxDropped {
		return KickMember
	}
	return DropFrame
}
