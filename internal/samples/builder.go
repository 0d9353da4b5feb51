// Package samples turns annotated dialogues into polarity-transition samples.
package samples

import "github.com/rcliao/dialogshift/internal/model"

// flatEpsilon is the smallest polarity change counted as rising or falling.
const flatEpsilon = 1e-9

// Build emits one sample per turn after the first, across all dialogues,
// preserving dialogue order and turn order. Dialogues must be aligned, as
// the loader guarantees.
func Build(dialogues []model.AnnotatedDialogue) []model.Sample {
	out := []model.Sample{}
	for di, d := range dialogues {
		for i := 1; i < d.Turns(); i++ {
			out = append(out, model.Sample{
				Dialogue:        di,
				Turn:            i,
				Utterance:       d.Utterances[i],
				Emotion:         d.Emotions[i],
				Action:          d.Actions[i],
				PrevPolarity:    d.Polarities[i-1],
				CurrentPolarity: d.Polarities[i],
			})
		}
	}
	return out
}

// Summary aggregates polarity changes over a sample set.
type Summary struct {
	Samples   int     `json:"samples"`
	Dialogues int     `json:"dialogues"`
	MeanDelta float64 `json:"mean_delta"`
	Rising    int     `json:"rising"`
	Falling   int     `json:"falling"`
	Flat      int     `json:"flat"`
}

// Summarize counts rising, falling and flat transitions.
func Summarize(ss []model.Sample) Summary {
	var sum Summary
	sum.Samples = len(ss)
	seen := map[int]bool{}
	var total float64
	for _, s := range ss {
		seen[s.Dialogue] = true
		d := s.Delta()
		total += d
		switch {
		case d > flatEpsilon:
			sum.Rising++
		case d < -flatEpsilon:
			sum.Falling++
		default:
			sum.Flat++
		}
	}
	sum.Dialogues = len(seen)
	if len(ss) > 0 {
		sum.MeanDelta = total / float64(len(ss))
	}
	return sum
}
