package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/dialogshift/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// timeFormat is fixed-width so created_at sorts as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		split       TEXT NOT NULL,
		base_dir    TEXT,
		scorer      TEXT NOT NULL DEFAULT 'lexicon',
		dialogues   INTEGER NOT NULL DEFAULT 0,
		rejected    INTEGER NOT NULL DEFAULT 0,
		samples     INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_split ON runs(split);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

	CREATE TABLE IF NOT EXISTS samples (
		run_id           TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq              INTEGER NOT NULL,
		dialogue         INTEGER NOT NULL,
		turn             INTEGER NOT NULL,
		utterance        TEXT NOT NULL,
		emotion          INTEGER NOT NULL,
		action           INTEGER NOT NULL,
		prev_polarity    REAL NOT NULL,
		current_polarity REAL NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_samples_dialogue ON samples(run_id, dialogue);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveRun(ctx context.Context, p RunParams) (*Run, error) {
	if p.Split == "" {
		return nil, errors.New("split is required")
	}
	scorer := p.Scorer
	if scorer == "" {
		scorer = "lexicon"
	}

	now := time.Now().UTC()
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var baseDir *string
	if p.BaseDir != "" {
		baseDir = &p.BaseDir
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, split, base_dir, scorer, dialogues, rejected, samples, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Split, baseDir, scorer, p.Dialogues, p.Rejected, len(p.Samples), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (run_id, seq, dialogue, turn, utterance, emotion, action, prev_polarity, current_polarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, smp := range p.Samples {
		_, err = stmt.ExecContext(ctx, id, i, smp.Dialogue, smp.Turn, smp.Utterance,
			smp.Emotion, smp.Action, smp.PrevPolarity, smp.CurrentPolarity)
		if err != nil {
			return nil, fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Run{
		ID:        id,
		Split:     p.Split,
		BaseDir:   p.BaseDir,
		Scorer:    scorer,
		Dialogues: p.Dialogues,
		Rejected:  p.Rejected,
		Samples:   len(p.Samples),
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, split, base_dir, scorer, dialogues, rejected, samples, created_at
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, split string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, split, base_dir, scorer, dialogues, rejected, samples, created_at FROM runs`
	var args []interface{}
	if split != "" {
		query += ` WHERE split = ?`
		args = append(args, split)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Samples returns the samples of a run matching q, in stored order.
func (s *SQLiteStore) Samples(ctx context.Context, q SampleQuery) ([]model.Sample, error) {
	if _, err := s.GetRun(ctx, q.RunID); err != nil {
		return nil, err
	}

	where := []string{"run_id = ?"}
	args := []interface{}{q.RunID}

	if q.Query != "" {
		where = append(where, `utterance LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(q.Query)+"%")
	}
	if q.MinDelta > 0 {
		where = append(where, "ABS(current_polarity - prev_polarity) >= ?")
		args = append(args, q.MinDelta)
	}

	query := fmt.Sprintf(`
		SELECT dialogue, turn, utterance, emotion, action, prev_polarity, current_polarity
		FROM samples WHERE %s ORDER BY seq`, strings.Join(where, " AND "))
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sample{}
	for rows.Next() {
		var smp model.Sample
		if err := rows.Scan(&smp.Dialogue, &smp.Turn, &smp.Utterance, &smp.Emotion,
			&smp.Action, &smp.PrevPolarity, &smp.CurrentPolarity); err != nil {
			return nil, err
		}
		out = append(out, smp)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var baseDir sql.NullString
	var createdAt string

	err := row.Scan(&r.ID, &r.Split, &baseDir, &r.Scorer, &r.Dialogues, &r.Rejected, &r.Samples, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	if baseDir.Valid {
		r.BaseDir = baseDir.String
	}
	return r, nil
}
