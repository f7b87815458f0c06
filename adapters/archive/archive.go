package archive

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"gazelab/domain/metrics"
	"gazelab/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	metric     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	eye_tracker TEXT NOT NULL,
	test        TEXT NOT NULL,
	n1          INTEGER NOT NULL,
	n2          INTEGER NOT NULL,
	mean1       REAL, sd1 REAL,
	mean2       REAL, sd2 REAL,
	t           REAL, df REAL,
	p           REAL, p_adjusted REAL,
	mean_diff   REAL, ci_low REAL, ci_high REAL,
	cohen_d     REAL, effect TEXT
);
`

// Archive persists each run's comparison rows to a local SQLite file so
// results stay inspectable across runs. Purely additive; the CSV outputs
// remain the primary artifact.
type Archive struct {
	db *sqlx.DB
}

// Open connects to (and if needed initializes) the archive file.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create archive directory for %s", path)
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize archive schema")
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun records one metric run and its comparison rows, returning the run ID.
func (a *Archive) SaveRun(metric string, comparisons []metrics.Comparison) (string, error) {
	runID := uuid.NewString()

	tx, err := a.db.Beginx()
	if err != nil {
		return "", errors.Wrap(err, "failed to begin archive transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, metric, created_at) VALUES (?, ?, ?)`,
		runID, metric, time.Now().UTC(),
	); err != nil {
		return "", errors.Wrapf(err, "failed to insert run for %s", metric)
	}

	for _, c := range comparisons {
		if _, err := tx.Exec(
			`INSERT INTO comparisons (
				run_id, eye_tracker, test, n1, n2,
				mean1, sd1, mean2, sd2,
				t, df, p, p_adjusted,
				mean_diff, ci_low, ci_high, cohen_d, effect
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Tracker, string(c.Test), c.N1, c.N2,
			c.Mean1, c.SD1, c.Mean2, c.SD2,
			c.T, c.DF, c.P, c.PAdjusted,
			c.MeanDiff, c.CILow, c.CIHigh, c.CohenD, string(c.Effect),
		); err != nil {
			return "", errors.Wrapf(err, "failed to insert comparison for %s", c.Tracker)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "failed to commit archive transaction")
	}

	log.Printf("[Archive] Saved run %s - Metric: %s, Comparisons: %d", runID, metric, len(comparisons))
	return runID, nil
}

// RunComparison is one archived comparison row joined with its run metadata.
type RunComparison struct {
	RunID     string    `db:"run_id"`
	Metric    string    `db:"metric"`
	CreatedAt time.Time `db:"created_at"`
	Tracker   string    `db:"eye_tracker"`
	Test      string    `db:"test"`
	P         float64   `db:"p"`
	PAdjusted float64   `db:"p_adjusted"`
	CohenD    float64   `db:"cohen_d"`
	Effect    string    `db:"effect"`
}

// History lists archived comparisons for one metric, newest first.
func (a *Archive) History(metric string) ([]RunComparison, error) {
	var rows []RunComparison
	err := a.db.Select(&rows, `
		SELECT c.run_id, r.metric, r.created_at, c.eye_tracker, c.test,
		       c.p, c.p_adjusted, c.cohen_d, c.effect
		FROM comparisons c
		JOIN runs r ON r.id = c.run_id
		WHERE r.metric = ?
		ORDER BY r.created_at DESC`, metric)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load history for %s", metric)
	}
	return rows, nil
}
