package sentiment

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dialogshift/internal/model"
)

func TestPolaritySigns(t *testing.T) {
	s := NewLexiconScorer()

	tests := []struct {
		text string
		sign int
	}{
		{"I love this place , it is wonderful .", 1},
		{"That was a terrible , awful day .", -1},
		{"The meeting is at three o'clock .", 0},
		{"", 0},
		{"This is not good .", -1},
		{"I don ' t like it .", -1},
		{"I don't like it .", -1},
		{"Never been so happy", -1},
		{"No , I am happy to help .", 1},
		{"Not now . Thank you very much !", 1},
		{"No ! That is terrible .", -1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := s.Polarity(tt.text)
			switch tt.sign {
			case 1:
				assert.Greater(t, got, 0.0)
			case -1:
				assert.Less(t, got, 0.0)
			default:
				assert.Equal(t, 0.0, got)
			}
		})
	}
}

func TestPolarityModifiers(t *testing.T) {
	s := NewLexiconScorer()
	plain := s.Polarity("good")
	assert.Greater(t, s.Polarity("very good"), plain)
	assert.Less(t, s.Polarity("slightly good"), plain)
}

func TestPolarityRange(t *testing.T) {
	s := NewLexiconScorer()
	texts := []string{
		"extremely incredibly absolutely outstanding superb thrilled",
		"extremely incredibly absolutely terrible worst awful",
		"not not not bad",
		strings.Repeat("great ", 50),
	}
	for _, text := range texts {
		p := s.Polarity(text)
		assert.GreaterOrEqual(t, p, -1.0, text)
		assert.LessOrEqual(t, p, 1.0, text)
	}
}

func TestParseLexicon(t *testing.T) {
	s, err := ParseLexicon(strings.NewReader("# comment\nsunny\t4\n\nrainy -3\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 0.8, s.Polarity("Sunny"), 1e-9)
	assert.InDelta(t, -0.6, s.Polarity("rainy"), 1e-9)

	_, err = ParseLexicon(strings.NewReader("sunny\tbright\n"))
	assert.Error(t, err)
	_, err = ParseLexicon(strings.NewReader("sunny\t9\n"))
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"i", "n't", "know"}, tokenize("I don ' t know"))
	assert.Equal(t, []string{"it's", "fine", "!"}, tokenize("It’s fine!!"))
	assert.Equal(t, []string{"no", ",", "i", "am", "happy", "."}, tokenize("No , I am happy ."))
}

func TestVaderPolarity(t *testing.T) {
	s := NewVaderScorer()

	tests := []struct {
		text string
		sign int
	}{
		{"I love this place , it is wonderful .", 1},
		{"That was a terrible , awful day .", -1},
		{"Thank you very much .", 1},
		{"I am sorry to hear that .", -1},
		{"No , I am happy to help .", 1},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := s.Polarity(tt.text)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
			switch tt.sign {
			case 1:
				assert.Greater(t, got, 0.0)
			case -1:
				assert.Less(t, got, 0.0)
			default:
				assert.Equal(t, 0.0, got)
			}
		})
	}
}

type countingScorer struct{ calls atomic.Int64 }

func (c *countingScorer) Polarity(text string) float64 {
	c.calls.Add(1)
	return float64(len(text)%3) - 1
}

func testDialogues() []model.Dialogue {
	return []model.Dialogue{
		{Utterances: []string{"a", "bb", "ccc"}, Emotions: []int{0, 0, 1}, Actions: []int{1, 2, 1}},
		{Utterances: []string{"dddd"}, Emotions: []int{4}, Actions: []int{3}},
		{Utterances: []string{}, Emotions: []int{}, Actions: []int{}},
		{Utterances: []string{"ee", "f"}, Emotions: []int{0, 5}, Actions: []int{2, 4}},
	}
}

func TestAnnotate(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		scorer := &countingScorer{}
		in := testDialogues()

		out, err := Annotate(context.Background(), scorer, in, workers)
		require.NoError(t, err)
		require.Len(t, out, len(in))
		assert.EqualValues(t, 6, scorer.calls.Load())

		for i, d := range out {
			require.Len(t, d.Polarities, len(d.Utterances))
			assert.Equal(t, in[i].Utterances, d.Utterances)
			for j, u := range d.Utterances {
				assert.Equal(t, scorer.Polarity(u), d.Polarities[j])
				assert.GreaterOrEqual(t, d.Polarities[j], -1.0)
				assert.LessOrEqual(t, d.Polarities[j], 1.0)
			}
		}
	}
}

func TestAnnotateDoesNotAlias(t *testing.T) {
	in := testDialogues()
	out, err := Annotate(context.Background(), NewLexiconScorer(), in, 1)
	require.NoError(t, err)

	out[0].Utterances[0] = "changed"
	assert.Equal(t, "a", in[0].Utterances[0])
}

func TestAnnotateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Annotate(ctx, NewLexiconScorer(), testDialogues(), 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = Annotate(ctx, NewLexiconScorer(), testDialogues(), 4)
	assert.ErrorIs(t, err, context.Canceled)
}
