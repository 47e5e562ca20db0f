package summary

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	wordsPerMinute = 150
	maxTopics      = 5
	minTopicLen    = 4
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {}, "me": {},
	"him": {}, "her": {}, "us": {}, "them": {},
}

type Stats struct {
	WordCount     int      `json:"word_count"`
	SentenceCount int      `json:"sentence_count"`
	// EstimatedDuration is in minutes.
	EstimatedDuration float64  `json:"estimated_duration"`
	KeyTopics         []string `json:"key_topics"`
}

func ComputeStats(transcript string) Stats {
	words := strings.Fields(transcript)
	return Stats{
		WordCount:         len(words),
		SentenceCount:     len(Sentences(transcript)),
		EstimatedDuration: float64(len(words)) / wordsPerMinute,
		KeyTopics:         KeyTopics(transcript, maxTopics),
	}
}

// Sentences splits on periods and drops blank pieces.
func Sentences(text string) []string {
	parts := lo.Map(strings.Split(text, "."), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(parts)
}

// KeyTopics returns the most frequent non-stop words longer than three
// letters. Ties keep first appearance order.
func KeyTopics(transcript string, limit int) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(strings.ToLower(transcript)) {
		w = strings.Trim(w, `.,!?;:"()[]{}`)
		if len(w) < minTopicLen {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	slices.SortStableFunc(order, func(a, b string) int { return cmp.Compare(freq[b], freq[a]) })
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
