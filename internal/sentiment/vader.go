package sentiment

import "github.com/jonreiter/govader"

// VaderScorer scores text with the VADER lexicon and rules. Polarity is the
// normalized compound score, already in [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer returns a scorer backed by the VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity implements Scorer.
func (s *VaderScorer) Polarity(text string) float64 {
	if text == "" {
		return 0
	}
	return clamp(s.analyzer.PolarityScores(text).Compound)
}

var (
	_ Scorer = (*VaderScorer)(nil)
	_ Scorer = (*LexiconScorer)(nil)
)
