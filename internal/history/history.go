// Package history handles SQLite persistence of completed bounties.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/bountyclock/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps fractional seconds fixed-width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Completion is a finished bounty.
type Completion struct {
	ID         string
	FinishedAt time.Time
	Duration   time.Duration
	Tent       string
	Tier       string
	Stages     []string
	Wanted     bool
}

// Stage is one timed stage.
type Stage struct {
	ID         string
	FinishedAt time.Time
	Kind       stats.Kind
	Duration   time.Duration
}

// Bests are all-time records across every stored session.
type Bests struct {
	Completions int
	Overall     time.Duration
	Stages      map[stats.Kind]time.Duration
}

// Store wraps SQLite access for bounty history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			finished_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			tent TEXT NOT NULL,
			tier TEXT NOT NULL,
			stages TEXT NOT NULL,
			wanted INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stages (
			id TEXT PRIMARY KEY,
			finished_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_finished_at ON completions(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_stages_kind ON stages(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCompletion stores c, filling ID and FinishedAt when empty.
func (s *Store) InsertCompletion(ctx context.Context, c Completion) (Completion, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.FinishedAt.IsZero() {
		c.FinishedAt = s.now()
	}
	wanted := 0
	if c.Wanted {
		wanted = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (id, finished_at, duration_ms, tent, tier, stages, wanted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.FinishedAt.UTC().Format(timeLayout),
		c.Duration.Milliseconds(),
		c.Tent,
		c.Tier,
		strings.Join(c.Stages, "\n"),
		wanted,
	)
	if err != nil {
		return Completion{}, fmt.Errorf("insert completion: %w", err)
	}
	return c, nil
}

// InsertStage stores st, filling ID and FinishedAt when empty.
func (s *Store) InsertStage(ctx context.Context, st Stage) (Stage, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.FinishedAt.IsZero() {
		st.FinishedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stages (id, finished_at, kind, duration_ms) VALUES (?, ?, ?, ?)`,
		st.ID,
		st.FinishedAt.UTC().Format(timeLayout),
		string(st.Kind),
		st.Duration.Milliseconds(),
	)
	if err != nil {
		return Stage{}, fmt.Errorf("insert stage: %w", err)
	}
	return st, nil
}

// Recent returns up to limit completions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Completion, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, finished_at, duration_ms, tent, tier, stages, wanted
		 FROM completions
		 ORDER BY finished_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Completion
	for rows.Next() {
		var c Completion
		var finishedAt, stages string
		var durationMs int64
		var wanted int
		if err := rows.Scan(&c.ID, &finishedAt, &durationMs, &c.Tent, &c.Tier, &stages, &wanted); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		parsed, err := time.Parse(timeLayout, finishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		c.FinishedAt = parsed
		c.Duration = time.Duration(durationMs) * time.Millisecond
		if stages != "" {
			c.Stages = strings.Split(stages, "\n")
		}
		c.Wanted = wanted != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

// Bests aggregates the all-time records. Zero-length runs are ignored.
func (s *Store) Bests(ctx context.Context) (Bests, error) {
	b := Bests{Stages: map[stats.Kind]time.Duration{}}

	var count int
	var overall sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(CASE WHEN duration_ms > 0 THEN duration_ms END) FROM completions`,
	).Scan(&count, &overall)
	if err != nil {
		return Bests{}, fmt.Errorf("query best completion: %w", err)
	}
	b.Completions = count
	if overall.Valid {
		b.Overall = time.Duration(overall.Int64) * time.Millisecond
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, MIN(duration_ms) FROM stages WHERE duration_ms >= 0 GROUP BY kind`)
	if err != nil {
		return Bests{}, fmt.Errorf("query best stages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var kind string
		var ms int64
		if err := rows.Scan(&kind, &ms); err != nil {
			return Bests{}, fmt.Errorf("scan best stage: %w", err)
		}
		b.Stages[stats.Kind(kind)] = time.Duration(ms) * time.Millisecond
	}
	if err := rows.Err(); err != nil {
		return Bests{}, fmt.Errorf("iterate best stages: %w", err)
	}
	return b, nil
}
