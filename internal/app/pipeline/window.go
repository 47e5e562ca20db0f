package pipeline

import (
	"cmp"
	"slices"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

// Window is the audio of one speaker flushed as a single unit.
type Window struct {
	Speaker domain.ConnID
	At      time.Time
	Data    []byte
}

// Assemble groups buffered chunks by speaker, orders each group by
// (timestamp, seq) and concatenates the bytes. Windows come back ordered by
// their first chunk.
func Assemble(chunks []domain.AudioChunk) []Window {
	sorted := slices.Clone(chunks)
	slices.SortStableFunc(sorted, func(a, b domain.AudioChunk) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})

	var out []Window
	index := make(map[domain.ConnID]int)
	for _, c := range sorted {
		i, ok := index[c.Speaker]
		if !ok {
			i = len(out)
			index[c.Speaker] = i
			out = append(out, Window{Speaker: c.Speaker, At: c.Timestamp})
		}
		out[i].Data = append(out[i].Data, c.Data...)
	}
	return out
}
