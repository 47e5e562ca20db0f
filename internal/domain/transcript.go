package domain

import "time"

type TranscriptSource string

const SourceClient TranscriptSource = "client"

type TranscriptEntry struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Text        string           `json:"text"`
	Speaker     ConnID           `json:"speaker"`
	SpeakerName string           `json:"speaker_name"`
	Sentiment   float64          `json:"sentiment"`
	Source      TranscriptSource `json:"source"`
	Language    string           `json:"language,omitempty"`
}

type SentimentEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Text      string    `json:"text"`
	Speaker   ConnID    `json:"speaker,omitempty"`
}
