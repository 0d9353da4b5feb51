package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/dialogshift/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSamples() []model.Sample {
	return []model.Sample{
		{Dialogue: 0, Turn: 1, Utterance: "Fine , thanks .", Emotion: 4, Action: 1, PrevPolarity: 0, CurrentPolarity: 0.4},
		{Dialogue: 0, Turn: 2, Utterance: "That is terrible news .", Emotion: 5, Action: 1, PrevPolarity: 0.4, CurrentPolarity: -0.6},
		{Dialogue: 1, Turn: 1, Utterance: "Sure .", Emotion: 0, Action: 4, PrevPolarity: 0.1, CurrentPolarity: 0.2},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.SaveRun(ctx, RunParams{
		Split: "train", BaseDir: "/data", Dialogues: 2, Rejected: 1, Samples: testSamples(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if run.ID == "" {
		t.Error("expected non-empty ID")
	}
	if run.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", run.Samples)
	}
	if run.Scorer != "lexicon" {
		t.Errorf("expected default scorer 'lexicon', got %q", run.Scorer)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Split != "train" || got.BaseDir != "/data" || got.Dialogues != 2 || got.Rejected != 1 {
		t.Errorf("run not persisted correctly: %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("created_at %v, want %v", got.CreatedAt, run.CreatedAt)
	}
}

func TestSaveRunRequiresSplit(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveRun(context.Background(), RunParams{}); err == nil {
		t.Error("expected error for missing split")
	}
}

func TestSamplesPreserveOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := testSamples()
	run, _ := s.SaveRun(ctx, RunParams{Split: "test", Samples: want})

	got, err := s.Samples(ctx, SampleQuery{RunID: run.ID})
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSamplesQueryLiteral(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run, _ := s.SaveRun(ctx, RunParams{Split: "test", Samples: []model.Sample{
		{Turn: 1, Utterance: "It is 100% done ."},
		{Turn: 2, Utterance: "It is 1000 done ."},
		{Turn: 3, Utterance: "snake_case"},
		{Turn: 4, Utterance: "snakeXcase"},
	}})

	got, _ := s.Samples(ctx, SampleQuery{RunID: run.ID, Query: "100%"})
	if len(got) != 1 || got[0].Turn != 1 {
		t.Errorf("query 100%%: got %+v", got)
	}
	got, _ = s.Samples(ctx, SampleQuery{RunID: run.ID, Query: "e_c"})
	if len(got) != 1 || got[0].Turn != 3 {
		t.Errorf("query e_c: got %+v", got)
	}
}

func TestSamplesFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run, _ := s.SaveRun(ctx, RunParams{Split: "test", Samples: testSamples()})

	got, _ := s.Samples(ctx, SampleQuery{RunID: run.ID, Query: "terrible"})
	if len(got) != 1 || got[0].Turn != 2 {
		t.Errorf("query filter: got %+v", got)
	}

	got, _ = s.Samples(ctx, SampleQuery{RunID: run.ID, MinDelta: 0.3})
	if len(got) != 2 {
		t.Errorf("expected 2 samples with |delta| >= 0.3, got %d", len(got))
	}

	got, _ = s.Samples(ctx, SampleQuery{RunID: run.ID, Limit: 1})
	if len(got) != 1 {
		t.Errorf("expected limit 1, got %d", len(got))
	}

	got, _ = s.Samples(ctx, SampleQuery{RunID: run.ID, Query: "%"})
	if len(got) != 0 {
		t.Errorf("expected %% to match literally, got %d samples", len(got))
	}

	_, err := s.Samples(ctx, SampleQuery{RunID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.SaveRun(ctx, RunParams{Split: "train"})
	s.SaveRun(ctx, RunParams{Split: "test"})
	last, _ := s.SaveRun(ctx, RunParams{Split: "train"})

	all, err := s.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3, got %d", len(all))
	}

	train, _ := s.ListRuns(ctx, "train", 0)
	if len(train) != 2 {
		t.Fatalf("expected 2 train runs, got %d", len(train))
	}
	if train[0].ID != last.ID || train[1].ID != first.ID {
		t.Errorf("expected newest first, got %s, %s", train[0].ID, train[1].ID)
	}

	limited, _ := s.ListRuns(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("expected 1 with limit, got %d", len(limited))
	}
}

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, _ := s.SaveRun(ctx, RunParams{Split: "train", Samples: testSamples()})
	if err := s.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalSamples != 0 {
		t.Errorf("expected samples removed, got %d", st.TotalSamples)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, _ := s.SaveRun(ctx, RunParams{Split: "validation", Dialogues: 2, Samples: testSamples()})
	exp, err := s.ExportRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	imported, err := s.ImportRun(ctx, *exp)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.ID == run.ID {
		t.Error("expected import to assign a new ID")
	}
	if imported.Samples != 3 || imported.Split != "validation" {
		t.Errorf("unexpected imported run: %+v", imported)
	}

	exp.Run.Samples = 10
	if _, err := s.ImportRun(ctx, *exp); err == nil {
		t.Error("expected error for inconsistent export")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.SaveRun(ctx, RunParams{Split: "train", Samples: testSamples()})
	s.SaveRun(ctx, RunParams{Split: "test"})

	st, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRuns != 2 || st.TotalSamples != 3 {
		t.Errorf("unexpected totals: %+v", st)
	}
	if len(st.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(st.Splits))
	}
	if st.Splits[0].Split != "test" || st.Splits[0].Samples != 0 {
		t.Errorf("unexpected test split stats: %+v", st.Splits[0])
	}
	if st.Splits[1].Runs != 1 || st.Splits[1].Samples != 3 {
		t.Errorf("unexpected train split stats: %+v", st.Splits[1])
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
