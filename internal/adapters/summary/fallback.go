// Package summary produces meeting summaries from a flattened transcript.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	goahocorasick "github.com/anknown/ahocorasick"

	"github.com/dkeye/Huddle/internal/core"
)

const (
	maxActionItems = 5
	actionSnippet  = 100
)

var actionPhrases = []string{"will", "should", "must", "need to", "action", "task", "todo", "follow up"}

// Fallback summarizes without a model: counts plus sentences that read like
// action items.
type Fallback struct {
	matcher *goahocorasick.Machine
	now     func() time.Time
}

func NewFallback() (*Fallback, error) {
	patterns := make([][]rune, len(actionPhrases))
	for i, p := range actionPhrases {
		patterns[i] = []rune(p)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build action matcher: %w", err)
	}
	return &Fallback{matcher: m, now: time.Now}, nil
}

func (f *Fallback) Name() string { return "fallback" }

// ActionItems returns sentences that contain an action phrase.
func (f *Fallback) ActionItems(transcript string) []string {
	var out []string
	for _, s := range Sentences(transcript) {
		if len(f.matcher.MultiPatternSearch([]rune(strings.ToLower(s)), true)) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (f *Fallback) Summarize(_ context.Context, transcript string, opts core.SummaryOptions) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return emptySummary, nil
	}
	words := len(strings.Fields(transcript))
	sentences := len(Sentences(transcript))

	var b strings.Builder
	fmt.Fprintf(&b, "Summary:\nMeeting transcript contains %d words across %d sentences. "+
		"This is a basic summary generated without AI assistance.\n\n", words, sentences)
	fmt.Fprintf(&b, "Meeting Minutes:\n- Meeting discussion recorded with %d words\n- %d main discussion points identified\n"+
		"- Transcript processed on %s\n", words, sentences, f.now().Format(time.DateTime))

	if opts.IncludeActionItems {
		b.WriteString("\nAction Items:")
		items := f.ActionItems(transcript)
		if len(items) == 0 {
			b.WriteString("\n- No clear action items identified in transcript")
		}
		for i, item := range items[:min(len(items), maxActionItems)] {
			fmt.Fprintf(&b, "\n- Action %d: %s", i+1, truncate(item, actionSnippet))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nNote: This summary was generated using basic text analysis. Configure a summarization API key for better results.")
	return b.String(), nil
}

const emptySummary = "Summary:\nNo transcript content available.\n\nMeeting Minutes:\n- No content recorded\n\nAction Items:\n- No action items identified"

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
