package core

import (
	"context"
	"errors"
)

// ErrBackpressure is returned by TrySend when the outbound buffer is full.
var ErrBackpressure = errors.New("backpressure")

// Frame is one encoded outbound signaling message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
//
//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_core.go -package=mocks
type SignalConnection interface {
	// TrySend never blocks.
	TrySend(Frame) error
	Close()
}

// Transcriber turns one window of encoded audio into text. An empty result
// means nothing intelligible was heard.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type SummaryOptions struct {
	IncludeSentiment   bool
	IncludeActionItems bool
}

// Summarizer condenses a flattened transcript into prose.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, transcript string, opts SummaryOptions) (string, error)
}
