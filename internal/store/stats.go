package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string       `json:"db_path"`
	DBSizeBytes  int64        `json:"db_size_bytes"`
	TotalRuns    int          `json:"total_runs"`
	TotalSamples int          `json:"total_samples"`
	Splits       []SplitStats `json:"splits"`
}

// SplitStats holds per-split counts.
type SplitStats struct {
	Split     string  `json:"split"`
	Runs      int     `json:"runs"`
	Samples   int     `json:"samples"`
	MeanDelta float64 `json:"mean_delta"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Splits: []SplitStats{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.TotalRuns); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&st.TotalSamples); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.split, COUNT(DISTINCT r.id), COUNT(sm.seq),
		       COALESCE(AVG(sm.current_polarity - sm.prev_polarity), 0)
		FROM runs r LEFT JOIN samples sm ON sm.run_id = r.id
		GROUP BY r.split ORDER BY r.split`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sp SplitStats
		if err := rows.Scan(&sp.Split, &sp.Runs, &sp.Samples, &sp.MeanDelta); err != nil {
			return st, err
		}
		st.Splits = append(st.Splits, sp)
	}

	return st, rows.Err()
}
