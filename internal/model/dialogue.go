// Package model defines the dialogue and sample data types.
package model

// Dialogue is one multi-turn conversation with per-turn emotion and act codes.
type Dialogue struct {
	Utterances []string `json:"utterances"`
	Emotions   []int    `json:"emotions"`
	Actions    []int    `json:"actions"`
}

// Turns returns the number of utterances.
func (d Dialogue) Turns() int {
	return len(d.Utterances)
}

// Aligned reports whether every per-turn sequence has the same length.
func (d Dialogue) Aligned() bool {
	return len(d.Utterances) == len(d.Emotions) && len(d.Emotions) == len(d.Actions)
}

// AnnotatedDialogue is a Dialogue with one sentiment polarity per utterance.
type AnnotatedDialogue struct {
	Dialogue
	Polarities []float64 `json:"polarities"`
}

// Sample is one consecutive utterance pair inside a dialogue.
type Sample struct {
	Dialogue        int     `json:"dialogue"`
	Turn            int     `json:"turn"`
	Utterance       string  `json:"utterance"`
	Emotion         int     `json:"emotion"`
	Action          int     `json:"action"`
	PrevPolarity    float64 `json:"prev_polarity"`
	CurrentPolarity float64 `json:"current_polarity"`
}

// Delta returns the change in polarity from the previous turn.
func (s Sample) Delta() float64 {
	return s.CurrentPolarity - s.PrevPolarity
}
