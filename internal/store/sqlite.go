package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/fabula/internal/model"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
// busy_timeout makes concurrent writers queue on the database lock instead
// of failing with SQLITE_BUSY; batch rows touch the store in parallel.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newIngestID returns a fresh ULID. ulid.Make uses the locked package
// entropy source, so concurrent Put calls are safe.
func (s *SQLiteStore) newIngestID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS narratives (
		ingest_id   TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		ingested_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS passages (
		ingest_id  TEXT NOT NULL REFERENCES narratives(ingest_id) ON DELETE CASCADE,
		chunk_id   TEXT NOT NULL,
		position   INTEGER NOT NULL,
		text       TEXT NOT NULL,
		char_start INTEGER NOT NULL,
		char_end   INTEGER NOT NULL,
		PRIMARY KEY (ingest_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_passages_ingest ON passages(ingest_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put replaces the stored passage set for a narrative inside one transaction
func (s *SQLiteStore) Put(ctx context.Context, narrative string, passages []model.Passage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM narratives WHERE name = ?`, narrative); err != nil {
		return fmt.Errorf("delete narrative: %w", err)
	}

	ingestID := s.newIngestID()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO narratives (ingest_id, name, ingested_at) VALUES (?, ?, ?)`,
		ingestID, narrative, now); err != nil {
		return fmt.Errorf("insert narrative: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passages (ingest_id, chunk_id, position, text, char_start, char_end)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		if _, err := stmt.ExecContext(ctx, ingestID, p.ChunkID, p.Position, p.Text, p.CharStart, p.CharEnd); err != nil {
			return fmt.Errorf("insert passage %d: %w", p.Position, err)
		}
	}

	return tx.Commit()
}

// Passages returns the stored passage set for a narrative ordered by position
func (s *SQLiteStore) Passages(ctx context.Context, narrative string) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.chunk_id, p.position, p.text, p.char_start, p.char_end
		FROM passages p
		JOIN narratives n ON n.ingest_id = p.ingest_id
		WHERE n.name = ?
		ORDER BY p.position`, narrative)
	if err != nil {
		return nil, fmt.Errorf("query passages: %w", err)
	}
	defer rows.Close()

	var passages []model.Passage
	for rows.Next() {
		var p model.Passage
		if err := rows.Scan(&p.ChunkID, &p.Position, &p.Text, &p.CharStart, &p.CharEnd); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
