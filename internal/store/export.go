package store

import (
	"context"
	"fmt"

	"github.com/rcliao/dialogshift/internal/model"
)

// RunExport is a run together with all its samples.
type RunExport struct {
	Run     Run            `json:"run"`
	Samples []model.Sample `json:"samples"`
}

// ExportRun returns a run and its samples in the format read by ImportRun.
func (s *SQLiteStore) ExportRun(ctx context.Context, id string) (*RunExport, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	samples, err := s.Samples(ctx, SampleQuery{RunID: id})
	if err != nil {
		return nil, err
	}
	return &RunExport{Run: *run, Samples: samples}, nil
}

// ImportRun stores an exported run under a new ID.
func (s *SQLiteStore) ImportRun(ctx context.Context, exp RunExport) (*Run, error) {
	if exp.Run.Samples != 0 && exp.Run.Samples != len(exp.Samples) {
		return nil, fmt.Errorf("export claims %d samples but contains %d", exp.Run.Samples, len(exp.Samples))
	}
	return s.SaveRun(ctx, RunParams{
		Split:     exp.Run.Split,
		BaseDir:   exp.Run.BaseDir,
		Scorer:    exp.Run.Scorer,
		Dialogues: exp.Run.Dialogues,
		Rejected:  exp.Run.Rejected,
		Samples:   exp.Samples,
	})
}
