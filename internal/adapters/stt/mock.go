package stt

import "context"

// Mock returns canned text by payload size. Used when no real backend is
// configured so the rest of the pipeline still runs.
type Mock struct{}

func (Mock) Name() string { return "mock" }

func (Mock) Transcribe(_ context.Context, audio []byte) (string, error) {
	switch n := len(audio); {
	case n > 5000:
		return "This is a longer speech segment detected by the mock transcription service.", nil
	case n > 2000:
		return "Speech detected by mock transcription.", nil
	default:
		return "Brief audio detected.", nil
	}
}
