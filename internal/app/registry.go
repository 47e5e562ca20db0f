package app

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Conn   core.SignalConnection
	Name   string
	Rooms  map[domain.RoomID]struct{}
	Cancel context.CancelFunc
	// consecutive frames lost to a full send buffer
	Dropped int
}

// Registry maps live connections to their transport and joined rooms.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.ConnID]*sessionEntry)}
}

func (r *Registry) Bind(id domain.ConnID, conn core.SignalConnection, name string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{
		Conn:   conn,
		Name:   domain.ResolveDisplayName(id, name),
		Rooms:  make(map[domain.RoomID]struct{}),
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("bound connection")
}

// Unbind forgets the connection and returns the rooms it was in.
func (r *Registry) Unbind(id domain.ConnID) ([]domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unbind connection")
	return slices.Collect(maps.Keys(e.Rooms)), true
}

func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Name(id domain.ConnID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Name
	}
	return domain.DefaultDisplayName(id)
}

func (r *Registry) SetName(id domain.ConnID, name string) error {
	name, err := domain.ValidateDisplayName(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.Name = name
		log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("name", name).Msg("updated name")
	}
	return nil
}

func (r *Registry) AddRoom(id domain.ConnID, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.Rooms[room] = struct{}{}
	}
}

func (r *Registry) RemoveRoom(id domain.ConnID, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		delete(e.Rooms, room)
	}
}

func (r *Registry) RoomsOf(id domain.ConnID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil
	}
	out := slices.Collect(maps.Keys(e.Rooms))
	slices.Sort(out)
	return out
}

// MarkDropped counts a lost frame and returns the current streak.
func (r *Registry) MarkDropped(id domain.ConnID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return 0
	}
	e.Dropped++
	return e.Dropped
}

func (r *Registry) ResetDropped(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok && e.Dropped != 0 {
		e.Dropped = 0
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cancel stops the connection's pumps; the transport then disconnects it.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}
