// Package history persists confirmation outcomes in a SQLite database at
// ~/.termai/history.db.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// SQLiteStore is the history repository. A store that failed to open keeps a
// nil db and degrades to a no-op; history must never break a query.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates or opens the database at path. An empty path
// selects ~/.termai/history.db.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(userHome(), ".termai", "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &SQLiteStore{path: path}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		prompt TEXT NOT NULL,
		command TEXT NOT NULL,
		position INTEGER NOT NULL,
		risky INTEGER NOT NULL,
		stateful INTEGER NOT NULL,
		kind TEXT NOT NULL,
		exit_code INTEGER NOT NULL
	);`)
	return err
}

// Append implements ports.HistoryRepository.
func (s *SQLiteStore) Append(rec domain.HistoryRecord) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO outcomes
		(timestamp, prompt, command, position, risky, stateful, kind, exit_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339),
		rec.Prompt,
		rec.Command,
		rec.Position,
		boolToInt(rec.Risky),
		boolToInt(rec.Stateful),
		string(rec.Kind),
		rec.ExitCode,
	)
	return err
}

// Recent returns the newest records first. limit <= 0 returns everything.
func (s *SQLiteStore) Recent(limit int) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	query := `SELECT timestamp, prompt, command, position, risky, stateful, kind, exit_code
		FROM outcomes ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts, kind string
		var risky, stateful int
		if err := rows.Scan(&ts, &rec.Prompt, &rec.Command, &rec.Position, &risky, &stateful, &kind, &rec.ExitCode); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Risky = risky == 1
		rec.Stateful = stateful == 1
		rec.Kind = domain.OutcomeKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all records.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec("DELETE FROM outcomes")
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
