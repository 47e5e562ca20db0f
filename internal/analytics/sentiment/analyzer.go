// Package sentiment scores short utterances against a fixed lexicon and
// keeps the rolling per-room history used for trends and alerts.
package sentiment

import (
	"strings"
	"unicode"
)

const (
	NegationFactor = -0.8
	negationReach  = 2
)

type Analyzer struct {
	lex   Lexicon
	scale float64
}

func NewAnalyzer(lex Lexicon) *Analyzer {
	return &Analyzer{lex: lex, scale: lex.maxIntensity()}
}

// Score returns the average polarity of the sentiment-bearing tokens of text,
// in [-1,1]. Averages are divided by the strongest intensifier so that an
// intensified word still outranks a plain one after clamping.
func (a *Analyzer) Score(text string) float64 {
	tokens := Tokenize(text)
	var sum float64
	var n int
	for i, tok := range tokens {
		w := a.lex.polarity(tok)
		if w == 0 {
			continue
		}
		if i > 0 {
			if f, ok := a.lex.Intensifiers[tokens[i-1]]; ok {
				w *= f
			}
		}
		if a.negated(tokens, i) {
			w *= NegationFactor
		}
		sum += w
		n++
	}
	if n == 0 {
		return 0
	}
	return Clamp(sum / float64(n) / a.scale)
}

func (a *Analyzer) negated(tokens []string, i int) bool {
	for j := max(0, i-negationReach); j < i; j++ {
		if _, ok := a.lex.Negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

// Tokenize lowercases text, turns punctuation into separators and keeps
// in-word apostrophes so contractions like "don't" survive.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '\'':
			return unicode.ToLower(r)
		case r == '’':
			return '\''
		default:
			return ' '
		}
	}, text)
	fields := strings.Fields(cleaned)
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func Clamp(score float64) float64 {
	return min(1, max(-1, score))
}
