package sentiment

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

// History is a bounded sequence of sentiment entries, oldest evicted first.
// Not safe for concurrent use; the owning room serializes access.
type History struct {
	cap     int
	entries []domain.SentimentEntry
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = domain.SentimentHistoryCap
	}
	return &History{cap: capacity}
}

// Record clamps the score, truncates the snippet and appends the entry.
func (h *History) Record(at time.Time, score float64, text string, speaker domain.ConnID) domain.SentimentEntry {
	e := domain.SentimentEntry{
		Timestamp: at,
		Score:     Clamp(score),
		Text:      Truncate(text, domain.SentimentSnippetLen),
		Speaker:   speaker,
	}
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.cap; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	return e
}

func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy.
func (h *History) Entries() []domain.SentimentEntry {
	return append([]domain.SentimentEntry(nil), h.entries...)
}

// Last returns a copy of the n most recent entries.
func (h *History) Last(n int) []domain.SentimentEntry {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]domain.SentimentEntry(nil), h.entries[len(h.entries)-n:]...)
}

func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
