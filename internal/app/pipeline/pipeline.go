package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Pipeline owns a room's chunk queue and its at most one worker.
type Pipeline struct {
	queue   *Queue
	worker  *Worker
	once    sync.Once
	running atomic.Bool
	done    chan struct{}
}

func New(w *Worker) *Pipeline {
	return &Pipeline{queue: w.queue, worker: w, done: make(chan struct{})}
}

// Submit enqueues a chunk. It never blocks.
func (p *Pipeline) Submit(c domain.AudioChunk) {
	p.queue.Push(c)
}

// Start launches the worker bound to ctx. Only the first call has an
// effect; it reports whether this call started the worker.
func (p *Pipeline) Start(ctx context.Context) bool {
	started := false
	p.once.Do(func() {
		started = true
		p.running.Store(true)
		go func() {
			defer close(p.done)
			defer p.running.Store(false)
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("module", "app.pipeline").Str("room", string(p.worker.room)).
						Interface("panic", r).Msg("transcription worker crashed")
				}
			}()
			_ = p.worker.Run(ctx)
		}()
	})
	return started
}

func (p *Pipeline) Running() bool { return p.running.Load() }

// Done is closed once a started worker has returned.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

func (p *Pipeline) Pending() int { return p.queue.Len() }
