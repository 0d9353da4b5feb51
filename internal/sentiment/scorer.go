// Package sentiment scores utterance polarity and annotates dialogues with it.
package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Scorer returns a polarity in [-1, 1] for a piece of text.
// Positive is favorable, negative unfavorable, 0 neutral or unknown.
type Scorer interface {
	Polarity(text string) float64
}

//go:embed lexicon.tsv
var defaultLexicon string

const (
	maxWordScore   = 5.0
	negationWindow = 3
	negationFactor = -0.5

	clauseBoundaries = ",.;:!?"
)

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nor":     true,
	"cannot":  true,
	"nothing": true,
	"nobody":  true,
	"n't":     true,
}

var modifiers = map[string]float64{
	"very":         1.3,
	"really":       1.3,
	"so":           1.2,
	"too":          1.2,
	"quite":        1.1,
	"extremely":    1.5,
	"incredibly":   1.5,
	"absolutely":   1.4,
	"totally":      1.3,
	"most":         1.2,
	"slightly":     0.5,
	"somewhat":     0.7,
	"barely":       0.4,
	"kinda":        0.7,
	"particularly": 1.2,
}

// LexiconScorer averages word polarities from an AFINN-style lexicon,
// with negation and intensifier handling.
type LexiconScorer struct {
	words map[string]float64
}

// NewLexiconScorer returns a scorer backed by the built-in lexicon.
func NewLexiconScorer() *LexiconScorer {
	s, err := ParseLexicon(strings.NewReader(defaultLexicon))
	if err != nil {
		panic(fmt.Sprintf("built-in lexicon: %v", err))
	}
	return s
}

// LoadLexicon reads a "word<TAB>score" file with scores in [-5, 5].
func LoadLexicon(path string) (*LexiconScorer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	return ParseLexicon(f)
}

// ParseLexicon reads lexicon entries from r. Blank lines and lines starting
// with '#' are ignored.
func ParseLexicon(r io.Reader) (*LexiconScorer, error) {
	words := make(map[string]float64)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.LastIndexAny(line, " \t")
		if idx <= 0 {
			return nil, fmt.Errorf("lexicon line %d: expected word and score", lineNum)
		}
		word := strings.ToLower(strings.TrimSpace(line[:idx]))
		score, err := strconv.ParseFloat(line[idx+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", lineNum, err)
		}
		if score < -maxWordScore || score > maxWordScore {
			return nil, fmt.Errorf("lexicon line %d: score %v out of range", lineNum, score)
		}
		words[word] = score / maxWordScore
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return &LexiconScorer{words: words}, nil
}

// Len returns the number of lexicon entries.
func (s *LexiconScorer) Len() int { return len(s.words) }

// Polarity implements Scorer.
func (s *LexiconScorer) Polarity(text string) float64 {
	var sum float64
	var hits int
	negated := 0
	boost := 1.0

	for _, tok := range tokenize(text) {
		if isClauseBoundary(tok) {
			negated = 0
			boost = 1.0
			continue
		}
		if isNegator(tok) {
			negated = negationWindow
			continue
		}
		if m, ok := modifiers[tok]; ok {
			boost *= m
			continue
		}

		if p, ok := s.words[tok]; ok {
			p *= boost
			if negated > 0 {
				p *= negationFactor
			}
			sum += clamp(p)
			hits++
		}
		boost = 1.0
		if negated > 0 {
			negated--
		}
	}

	if hits == 0 {
		return 0
	}
	return clamp(sum / float64(hits))
}

// isClauseBoundary reports whether tok ends the scope of a negator or modifier.
func isClauseBoundary(tok string) bool {
	return len(tok) == 1 && strings.ContainsAny(tok, clauseBoundaries)
}

func isNegator(tok string) bool {
	return negators[tok] || strings.HasSuffix(tok, "n't")
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// tokenize lowercases text and splits it into words, keeping contractions whole.
// Clause punctuation is kept as single-character tokens.
// DailyDialog writes "don ' t" and "don't" interchangeably, so a lone "t" after
// a word ending in "n" is folded back into "n't".
func tokenize(text string) []string {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))

	var out []string
	var word strings.Builder
	flush := func() {
		tok := strings.Trim(word.String(), "'")
		word.Reset()
		if tok == "" {
			return
		}
		if tok == "t" && len(out) > 0 && strings.HasSuffix(out[len(out)-1], "n") {
			out[len(out)-1] = "n't"
			return
		}
		out = append(out, tok)
	}

	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			word.WriteRune(r)
		case strings.ContainsRune(clauseBoundaries, r):
			flush()
			if n := len(out); n == 0 || out[n-1] != string(r) {
				out = append(out, string(r))
			}
		default:
			flush()
		}
	}
	flush()
	return out
}
