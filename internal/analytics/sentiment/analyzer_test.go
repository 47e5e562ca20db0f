package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore_EmptyIsZero(t *testing.T) {
	req := require.New(t)
	a := NewAnalyzer(DefaultLexicon())

	req.Equal(0.0, a.Score(""))
	req.Equal(0.0, a.Score("   ...!!"))
	req.Equal(0.0, a.Score("the meeting starts at noon"))
}

func TestScore_Ordering(t *testing.T) {
	req := require.New(t)
	a := NewAnalyzer(DefaultLexicon())

	good := a.Score("good")
	veryGood := a.Score("very good")
	notGood := a.Score("not good")

	req.Greater(good, 0.0)
	req.Greater(veryGood, good)
	req.Less(notGood, good)
	req.Less(notGood, 0.0)
}

func TestScore_Cases(t *testing.T) {
	a := NewAnalyzer(DefaultLexicon())
	scale := DefaultLexicon().maxIntensity()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"positive word", "Great!", 1 / scale},
		{"negative word", "this is bad", -1 / scale},
		{"intensified", "extremely bad", -1},
		{"negation two tokens back", "not a good idea", -0.8 / scale},
		{"negation three tokens back is ignored", "not at all good", 1 / scale},
		{"contraction negates", "I don't like it", -0.8 / scale},
		{"intensifier then negation", "not very good", 1.5 * -0.8 / scale},
		{"mixed averages", "good but bad", 0},
		{"punctuation stripped", "good... GOOD!!!", 1 / scale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, a.Score(tt.text), 1e-9)
		})
	}
}

func TestScore_AlwaysClamped(t *testing.T) {
	req := require.New(t)
	lex := DefaultLexicon()
	// A custom intensifier far stronger than the scale must still clamp.
	a := NewAnalyzer(lex)
	lex.Intensifiers["insanely"] = 10

	inputs := []string{
		"insanely good", "insanely bad", strings.Repeat("extremely awful ", 50),
		"no no no no", "never not nothing good",
	}
	for _, in := range inputs {
		s := a.Score(in)
		req.GreaterOrEqual(s, -1.0, in)
		req.LessOrEqual(s, 1.0, in)
	}
}

func TestTokenize(t *testing.T) {
	req := require.New(t)

	req.Equal([]string{"don't", "stop", "it's", "fine"}, Tokenize("Don’t stop -- it's 'fine'"))
	req.Empty(Tokenize("?!"))
}
