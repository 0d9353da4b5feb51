package embedding

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedLine is returned for a line with a missing or non-numeric component.
var ErrMalformedLine = errors.New("malformed embedding line")

const maxLineSize = 1 << 20

var _ Embedder = (*Table)(nil)

// Table is a vocabulary loaded from a whitespace-delimited vector file
// (GloVe text format: "token v1 v2 ... vN").
type Table struct {
	// WordToIndex and IndexToWord are 1-based, ordered lexicographically.
	WordToIndex map[string]int
	IndexToWord map[int]string
	WordToVec   map[string]Vector

	// Duplicates lists tokens that appeared more than once; the last vector won.
	Duplicates []string

	dims int
}

// LoadTable reads the vector file at path into a Table.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embeddings: %w", err)
	}
	defer f.Close()

	t := &Table{WordToVec: make(map[string]Vector)}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		word, comps := fields[0], fields[1:]
		if len(comps) == 0 {
			return nil, fmt.Errorf("line %d: token %q has no vector: %w", lineNum, word, ErrMalformedLine)
		}
		if t.dims == 0 {
			t.dims = len(comps)
		} else if len(comps) != t.dims {
			return nil, fmt.Errorf("line %d: expected %d components, got %d: %w", lineNum, t.dims, len(comps), ErrMalformedLine)
		}

		vec := make(Vector, len(comps))
		for i, c := range comps {
			v, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: component %d %q: %w", lineNum, i+1, c, ErrMalformedLine)
			}
			vec[i] = v
		}

		if seen[word] {
			t.Duplicates = append(t.Duplicates, word)
		}
		seen[word] = true
		t.WordToVec[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read embeddings: %w", err)
	}

	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)

	t.WordToIndex = make(map[string]int, len(words))
	t.IndexToWord = make(map[int]string, len(words))
	for i, w := range words {
		t.WordToIndex[w] = i + 1
		t.IndexToWord[i+1] = w
	}
	return t, nil
}

// Len returns the vocabulary size.
func (t *Table) Len() int { return len(t.WordToIndex) }

// Dims returns the vector dimensionality, or 0 for an empty table.
func (t *Table) Dims() int { return t.dims }

// Vector returns the vector for word, if present.
func (t *Table) Vector(word string) (Vector, bool) {
	v, ok := t.WordToVec[word]
	return v, ok
}

// Embed averages the vectors of the known tokens of text.
// Tokens are lowercased; text with no known token yields a zero vector.
func (t *Table) Embed(ctx context.Context, text string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(Vector, t.dims)
	n := 0
	for _, tok := range tokenize(text) {
		v, ok := t.WordToVec[tok]
		if !ok {
			continue
		}
		for i := range out {
			out[i] += v[i]
		}
		n++
	}
	if n > 0 {
		for i := range out {
			out[i] /= float64(n)
		}
	}
	return out, nil
}

// Neighbor is a vocabulary entry scored against a query word.
type Neighbor struct {
	Word       string  `json:"word"`
	Index      int     `json:"index"`
	Similarity float64 `json:"similarity"`
}

// Nearest returns the k words most similar to word, excluding word itself.
func (t *Table) Nearest(word string, k int) ([]Neighbor, error) {
	q, ok := t.WordToVec[word]
	if !ok {
		return nil, fmt.Errorf("word not in vocabulary: %q", word)
	}
	if k <= 0 {
		k = 10
	}

	out := make([]Neighbor, 0, len(t.WordToVec))
	for w, v := range t.WordToVec {
		if w == word {
			continue
		}
		out = append(out, Neighbor{Word: w, Index: t.WordToIndex[w], Similarity: CosineSimilarity(q, v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
