package sentiment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/dialogshift/internal/model"
)

// Annotate scores every utterance and returns new annotated records in input order.
// The input dialogues are not modified. With workers > 1, dialogues are scored
// concurrently; scorer must then be safe for concurrent use.
func Annotate(ctx context.Context, scorer Scorer, dialogues []model.Dialogue, workers int) ([]model.AnnotatedDialogue, error) {
	out := make([]model.AnnotatedDialogue, len(dialogues))

	if workers <= 1 {
		for i, d := range dialogues {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = annotateOne(scorer, d)
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range dialogues {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = annotateOne(scorer, d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func annotateOne(scorer Scorer, d model.Dialogue) model.AnnotatedDialogue {
	cp := model.Dialogue{
		Utterances: make([]string, len(d.Utterances)),
		Emotions:   make([]int, len(d.Emotions)),
		Actions:    make([]int, len(d.Actions)),
	}
	copy(cp.Utterances, d.Utterances)
	copy(cp.Emotions, d.Emotions)
	copy(cp.Actions, d.Actions)
	pols := make([]float64, len(cp.Utterances))
	for i, u := range cp.Utterances {
		pols[i] = scorer.Polarity(u)
	}
	return model.AnnotatedDialogue{Dialogue: cp, Polarities: pols}
}
