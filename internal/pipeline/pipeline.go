// Package pipeline chains loading, sentiment annotation and sample building.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/dialogshift/internal/dataset"
	"github.com/rcliao/dialogshift/internal/model"
	"github.com/rcliao/dialogshift/internal/samples"
	"github.com/rcliao/dialogshift/internal/sentiment"
)

// Options configures a pipeline run. Workers bounds concurrent scoring.
type Options struct {
	Data    dataset.Options
	Scorer  sentiment.Scorer
	Workers int
}

// Output carries each stage's result.
type Output struct {
	Load      *dataset.Result
	Annotated []model.AnnotatedDialogue
	Samples   []model.Sample
	Summary   samples.Summary
}

// Run loads split, annotates every dialogue and builds its samples.
func Run(ctx context.Context, opts Options, split string) (*Output, error) {
	if opts.Scorer == nil {
		return nil, errors.New("pipeline: scorer is required")
	}

	res, err := dataset.Load(ctx, opts.Data, split)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", split, err)
	}

	annotated, err := sentiment.Annotate(ctx, opts.Scorer, res.Dialogues, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", split, err)
	}

	ss := samples.Build(annotated)
	return &Output{
		Load:      res,
		Annotated: annotated,
		Samples:   ss,
		Summary:   samples.Summarize(ss),
	}, nil
}
