package harness

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/playproof/playproof/mutation"
)

// SQLiteStore persists mutant outcomes in a SQLite database so long
// mutation campaigns survive worker restarts. Pass ":memory:" for an
// ephemeral store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutant_results (
		mutant_id TEXT PRIMARY KEY,
		class INTEGER NOT NULL,
		status INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Put records one outcome, overwriting any earlier outcome for the mutant.
func (s *SQLiteStore) Put(ctx context.Context, result mutation.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutant_results (mutant_id, class, status, reason)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(mutant_id) DO UPDATE SET
			class = excluded.class,
			status = excluded.status,
			reason = excluded.reason`,
		result.MutantID, int(result.Class), int(result.Status), result.Reason)
	if err != nil {
		return fmt.Errorf("put result: %w", err)
	}
	return nil
}

// Get retrieves the outcome for a mutant id.
func (s *SQLiteStore) Get(ctx context.Context, mutantID string) (mutation.Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT mutant_id, class, status, reason
		FROM mutant_results WHERE mutant_id = ?`, mutantID)

	var r mutation.Result
	var class, status int
	if err := row.Scan(&r.MutantID, &class, &status, &r.Reason); err != nil {
		if err == sql.ErrNoRows {
			return mutation.Result{}, ErrResultNotFound
		}
		return mutation.Result{}, fmt.Errorf("get result: %w", err)
	}
	r.Class = mutation.Class(class)
	r.Status = mutation.Status(status)
	return r, nil
}

// List returns all recorded outcomes sorted by mutant id.
func (s *SQLiteStore) List(ctx context.Context) ([]mutation.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mutant_id, class, status, reason
		FROM mutant_results ORDER BY mutant_id`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []mutation.Result
	for rows.Next() {
		var r mutation.Result
		var class, status int
		if err := rows.Scan(&r.MutantID, &class, &status, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Class = mutation.Class(class)
		r.Status = mutation.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
