package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

// ErrIdle is returned by Pop when nothing arrived within the wait window.
var ErrIdle = errors.New("queue idle")

// Queue is an unbounded multi-producer single-consumer chunk queue.
// Push never blocks.
type Queue struct {
	mu    sync.Mutex
	items []domain.AudioChunk
	ready chan struct{}
}

func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) Push(c domain.AudioChunk) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Pop waits up to wait for the oldest chunk. Only one goroutine may Pop.
func (q *Queue) Pop(ctx context.Context, wait time.Duration) (domain.AudioChunk, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		if c, ok := q.take(); ok {
			return c, nil
		}
		select {
		case <-ctx.Done():
			return domain.AudioChunk{}, ctx.Err()
		case <-timer.C:
			return domain.AudioChunk{}, ErrIdle
		case <-q.ready:
		}
	}
}

func (q *Queue) take() (domain.AudioChunk, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return domain.AudioChunk{}, false
	}
	c := q.items[0]
	q.items[0] = domain.AudioChunk{}
	q.items = q.items[1:]
	return c, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
