package domain

type RoomID string

// Bounded history caps. Oldest entries are evicted first.
const (
	SentimentHistoryCap = 100
	AttentionHistoryCap = 20
	SentimentSnippetLen = 100
)

type RoomInfo struct {
	ID           RoomID `json:"id"`
	Participants int    `json:"participants"`
	Transcript   int    `json:"transcript_length"`
	CreatedAt    int64  `json:"created_at"`
}
