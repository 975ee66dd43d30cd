// Package store keeps a local journal of encoded transactions so operators
// can audit what calldata the tool produced. Writes are guarded by a file
// lock because several CLI invocations may share one journal.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// Entry is one journal record: which solution (by digest) was encoded, with
// which strategy, and the resulting transaction fields. Data is hex with 0x
// prefix.
type Entry struct {
	ID             string `json:"id"`
	Chain          string `json:"chain"`
	Strategy       string `json:"strategy"`
	SolutionDigest string `json:"solution_digest"`
	To             string `json:"to"`
	Value          string `json:"value"`
	Data           string `json:"data"`
	CreatedAt      string `json:"created_at"`
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal lock directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal sqlite: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS encodes (
			id TEXT PRIMARY KEY,
			chain TEXT NOT NULL,
			strategy TEXT NOT NULL,
			solution_digest TEXT NOT NULL,
			to_address TEXT NOT NULL,
			value TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_encodes_created ON encodes(created_at DESC);",
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init journal schema: %w", err)
		}
	}
	return &Store{db: db, lock: flock.New(lockPath)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Record(entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("record encode: missing id")
	}
	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock journal: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock journal: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	createdUnix := time.Now().UTC().Unix()
	if t, err := time.Parse(time.RFC3339, entry.CreatedAt); err == nil {
		createdUnix = t.UTC().Unix()
	}
	_, err = s.db.Exec(`
		INSERT INTO encodes (id, chain, strategy, solution_digest, to_address, value, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Chain, entry.Strategy, entry.SolutionDigest, entry.To, entry.Value, []byte(entry.Data), createdUnix)
	if err != nil {
		return fmt.Errorf("record encode: %w", err)
	}
	return nil
}

func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, chain, strategy, solution_digest, to_address, value, data, created_at
		FROM encodes ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list encodes: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			entry       Entry
			data        []byte
			createdUnix int64
		)
		if err := rows.Scan(&entry.ID, &entry.Chain, &entry.Strategy, &entry.SolutionDigest, &entry.To, &entry.Value, &data, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan encode row: %w", err)
		}
		entry.Data = string(data)
		entry.CreatedAt = time.Unix(createdUnix, 0).UTC().Format(time.RFC3339)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate encode rows: %w", err)
	}
	return entries, nil
}

var ErrNotFound = errors.New("encode not found")

func (s *Store) Get(id string) (Entry, error) {
	var (
		entry       Entry
		data        []byte
		createdUnix int64
	)
	err := s.db.QueryRow(`
		SELECT id, chain, strategy, solution_digest, to_address, value, data, created_at
		FROM encodes WHERE id = ?
	`, id).Scan(&entry.ID, &entry.Chain, &entry.Strategy, &entry.SolutionDigest, &entry.To, &entry.Value, &data, &createdUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("read encode: %w", err)
	}
	entry.Data = string(data)
	entry.CreatedAt = time.Unix(createdUnix, 0).UTC().Format(time.RFC3339)
	return entry, nil
}
