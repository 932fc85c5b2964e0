package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStorage struct {
	SQLiteConfig

	db *sql.DB
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = filepath.Join(directory, "departures.db")
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if !onDisk {
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS document (
    url TEXT NOT NULL,
    body BLOB NOT NULL,
    retrieved_at TIMESTAMP NOT NULL,
PRIMARY KEY (url)
);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating document table: %w", err)
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk:    onDisk,
			Directory: directory,
		},
		db: db,
	}, nil
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, url string) (*Document, error) {
	doc := &Document{}
	err := s.db.QueryRowContext(ctx, `
SELECT url, body, retrieved_at
FROM document
WHERE url = ?`, url).Scan(&doc.URL, &doc.Body, &doc.RetrievedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStorage) WriteDocument(ctx context.Context, doc *Document) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO document (url, body, retrieved_at)
VALUES (?, ?, ?)
ON CONFLICT (url) DO UPDATE SET
    body = excluded.body,
    retrieved_at = excluded.retrieved_at
`, doc.URL, doc.Body, doc.RetrievedAt.UTC())
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteDocuments(ctx context.Context, retrievedBefore time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM document
WHERE retrieved_at < ?
`, retrievedBefore.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
