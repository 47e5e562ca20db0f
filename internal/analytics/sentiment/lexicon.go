package sentiment

// Lexicon is the fixed vocabulary the analyzer scores against.
type Lexicon struct {
	Positive     map[string]struct{}
	Negative     map[string]struct{}
	Intensifiers map[string]float64
	Negations    map[string]struct{}
}

var (
	positiveWords = []string{
		"good", "great", "excellent", "amazing", "wonderful", "fantastic",
		"love", "like", "happy", "excited", "agree", "yes", "perfect",
		"awesome", "brilliant", "outstanding", "superb", "terrific",
		"marvelous", "fabulous", "incredible", "impressive", "positive",
		"successful", "effective", "efficient", "productive", "valuable",
		"beneficial", "helpful", "useful", "constructive", "innovative",
		"creative", "inspiring",
	}
	negativeWords = []string{
		"bad", "terrible", "awful", "hate", "dislike", "sad", "angry",
		"frustrated", "disagree", "no", "wrong", "problem", "issue",
		"concern", "worried", "disappointed", "upset", "annoyed",
		"irritated", "confused", "difficult", "challenging", "impossible",
		"failure", "failed", "broken", "error", "mistake", "ineffective",
		"useless", "pointless", "waste", "boring", "tedious",
		"overwhelming", "stressful",
	}
	intensifierFactors = map[string]float64{
		"very":       1.5,
		"really":     1.4,
		"extremely":  1.8,
		"incredibly": 1.7,
		"absolutely": 1.6,
		"totally":    1.5,
		"completely": 1.6,
		"quite":      1.2,
		"rather":     1.1,
		"pretty":     1.1,
		"so":         1.3,
		"too":        1.2,
		"highly":     1.4,
		"deeply":     1.3,
		"truly":      1.4,
	}
	negationWords = []string{
		"not", "no", "never", "nothing", "nobody", "nowhere", "neither",
		"nor", "don't", "won't", "can't", "shouldn't", "wouldn't",
		"couldn't", "isn't", "aren't", "wasn't", "weren't",
	}
)

// DefaultLexicon returns a fresh copy of the built-in vocabulary.
func DefaultLexicon() Lexicon {
	intensifiers := make(map[string]float64, len(intensifierFactors))
	for k, v := range intensifierFactors {
		intensifiers[k] = v
	}
	return Lexicon{
		Positive:     toSet(positiveWords),
		Negative:     toSet(negativeWords),
		Intensifiers: intensifiers,
		Negations:    toSet(negationWords),
	}
}

// maxIntensity is the largest multiplier a single word can receive.
func (l Lexicon) maxIntensity() float64 {
	m := 1.0
	for _, f := range l.Intensifiers {
		if f > m {
			m = f
		}
	}
	return m
}

func (l Lexicon) polarity(tok string) float64 {
	if _, ok := l.Positive[tok]; ok {
		return 1
	}
	if _, ok := l.Negative[tok]; ok {
		return -1
	}
	return 0
}

func toSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
