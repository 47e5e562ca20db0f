package domain

import "time"

const DefaultEngagement = 0.5

// Participant is one connection's membership in a room.
// No transport or lifecycle logic here.
type Participant struct {
	ID           ConnID
	Name         string
	JoinedAt     time.Time
	LastActivity time.Time
	// SpeakingTime is an estimate in seconds.
	SpeakingTime float64
	Engagement   float64
}

func NewParticipant(id ConnID, name string, now time.Time) *Participant {
	return &Participant{
		ID:           id,
		Name:         ResolveDisplayName(id, name),
		JoinedAt:     now,
		LastActivity: now,
		Engagement:   DefaultEngagement,
	}
}
