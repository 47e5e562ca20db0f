// Package pipeline turns streamed audio chunks of a room into transcript
// text through a pluggable transcription backend.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultFlushInterval = 3 * time.Second
	DefaultMinBytes      = 1024
	DefaultTimeout       = 30 * time.Second
)

var ErrBackendPanic = errors.New("transcription backend panicked")

type Config struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	// Windows of MinBytes or less are discarded.
	MinBytes int           `mapstructure:"min_bytes"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (c Config) withDefaults() Config {
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.MinBytes <= 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Sink receives non-blank transcription results.
type Sink func(ctx context.Context, speaker domain.ConnID, text string, at time.Time)

// Worker is the single consumer of one room's queue.
type Worker struct {
	room    domain.RoomID
	queue   *Queue
	backend core.Transcriber
	sink    Sink
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger
}

func NewWorker(room domain.RoomID, queue *Queue, backend core.Transcriber, sink Sink, cfg Config) *Worker {
	return &Worker{
		room:    room,
		queue:   queue,
		backend: backend,
		sink:    sink,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		log:     log.With().Str("module", "app.pipeline").Str("room", string(room)).Logger(),
	}
}

// Run drains the queue until ctx is cancelled. A window is flushed when the
// queue stays idle for a flush interval or when the window has been open for
// that long.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Str("backend", w.backend.Name()).Msg("transcription worker started")
	defer w.log.Info().Msg("transcription worker stopped")

	var buf []domain.AudioChunk
	var opened time.Time
	for {
		chunk, err := w.queue.Pop(ctx, w.cfg.FlushInterval)
		switch {
		case err == nil:
			if len(buf) == 0 {
				opened = w.now()
			}
			buf = append(buf, chunk)
		case errors.Is(err, ErrIdle):
		default:
			return nil
		}
		if len(buf) > 0 && (err != nil || w.now().Sub(opened) >= w.cfg.FlushInterval) {
			w.flush(ctx, buf)
			buf = nil
		}
	}
}

func (w *Worker) flush(ctx context.Context, buf []domain.AudioChunk) {
	for _, win := range Assemble(buf) {
		if len(win.Data) <= w.cfg.MinBytes {
			w.log.Debug().Int("bytes", len(win.Data)).Msg("audio window too short, dropped")
			continue
		}
		text, err := w.transcribe(ctx, win.Data)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Str("conn", string(win.Speaker)).Int("bytes", len(win.Data)).Msg("transcription failed")
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		w.sink(ctx, win.Speaker, text, win.At)
	}
}

func (w *Worker) transcribe(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBackendPanic, r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()
	return w.backend.Transcribe(ctx, data)
}
