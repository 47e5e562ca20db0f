package domain

import "time"

// AudioChunk is transient: consumed by the transcription pipeline and dropped.
type AudioChunk struct {
	Speaker   ConnID
	Timestamp time.Time
	Seq       int64
	Data      []byte
}
