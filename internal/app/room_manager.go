package app

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/app/pipeline"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// PipelineFactory builds the transcription pipeline of a new room.
type PipelineFactory func(room domain.RoomID) *pipeline.Pipeline

// RoomManager owns room existence. Its lock never guards room state;
// lock order is manager then room.
type RoomManager struct {
	ctx         context.Context
	cancel      context.CancelFunc
	opts        RoomOptions
	newPipeline PipelineFactory
	now         func() time.Time

	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
}

func NewRoomManager(parent context.Context, opts RoomOptions, newPipeline PipelineFactory) *RoomManager {
	ctx, cancel := context.WithCancel(parent)
	return &RoomManager{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		newPipeline: newPipeline,
		now:         time.Now,
		rooms:       make(map[domain.RoomID]*Room),
	}
}

// GetOrCreate returns the live room for id, creating it on first reference.
func (m *RoomManager) GetOrCreate(id domain.RoomID) (*Room, bool) {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok {
		return room, false
	}
	room = newRoom(m.ctx, id, m.now(), m.opts)
	if m.newPipeline != nil {
		room.pipeline = m.newPipeline(id)
	}
	m.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return room, true
}

func (m *RoomManager) Get(id domain.RoomID) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// DeleteIfEmpty drops the room when nobody is left in it and cancels its
// worker. A room that gained a participant meanwhile is kept.
func (m *RoomManager) DeleteIfEmpty(room *Room) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[room.id]; !ok || cur != room {
		return false
	}
	if !room.closeIfEmpty() {
		return false
	}
	delete(m.rooms, room.id)
	log.Info().Str("module", "app.rooms").Str("room", string(room.id)).Msg("room deleted")
	return true
}

// Rooms returns a snapshot of the live rooms.
func (m *RoomManager) Rooms() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

func (m *RoomManager) List() []domain.RoomInfo {
	rooms := m.Rooms()
	out := make([]domain.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Info())
	}
	return out
}

type Stats struct {
	Rooms         int `json:"active_rooms"`
	Participants  int `json:"total_participants"`
	ActiveWorkers int `json:"active_workers"`
}

// Stats reads each room separately; it never holds two room locks.
func (m *RoomManager) Stats() Stats {
	rooms := m.Rooms()
	s := Stats{Rooms: len(rooms)}
	for _, r := range rooms {
		s.Participants += r.Count()
		if r.Transcribing() {
			s.ActiveWorkers++
		}
	}
	return s
}

// Close stops every room. Used on shutdown.
func (m *RoomManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		r.forceClose()
		delete(m.rooms, id)
	}
	m.cancel()
}
