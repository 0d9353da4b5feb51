// Package store persists sample runs in SQLite.
package store

import (
	"context"
	"time"

	"github.com/rcliao/dialogshift/internal/model"
)

// Run describes one stored pipeline run over a split.
type Run struct {
	ID        string    `json:"id"`
	Split     string    `json:"split"`
	BaseDir   string    `json:"base_dir,omitempty"`
	Scorer    string    `json:"scorer"`
	Dialogues int       `json:"dialogues"`
	Rejected  int       `json:"rejected"`
	Samples   int       `json:"samples"`
	CreatedAt time.Time `json:"created_at"`
}

// RunParams holds parameters for saving a run.
type RunParams struct {
	Split     string
	BaseDir   string
	Scorer    string
	Dialogues int
	Rejected  int
	Samples   []model.Sample
}

// SampleQuery filters the samples of a run.
type SampleQuery struct {
	RunID string
	Query string // substring match on the utterance
	// MinDelta keeps samples whose absolute polarity change is at least this value.
	MinDelta float64
	Limit    int
}

// Store defines the sample storage interface.
type Store interface {
	// SaveRun stores a run and all its samples in one transaction.
	SaveRun(ctx context.Context, p RunParams) (*Run, error)

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns lists runs, newest first.
	ListRuns(ctx context.Context, split string, limit int) ([]Run, error)

	// Samples returns the samples of a run in their original order.
	Samples(ctx context.Context, q SampleQuery) ([]model.Sample, error)

	// DeleteRun removes a run and its samples.
	DeleteRun(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}
