package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const DefaultPSQLTable = "document"

type PSQLStorage struct {
	db    *sql.DB
	table string
}

// Creates a new Postgres Storage using the provided connection string.
// Documents are kept in the given table (DefaultPSQLTable if blank).
//
// If clearDB is true, the table will be dropped on startup. You
// probably only want this for testing.
func NewPSQLStorage(connStr string, table string, clearDB bool) (*PSQLStorage, error) {
	if table == "" {
		table = DefaultPSQLTable
	}
	quoted := pq.QuoteIdentifier(table)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, quoted))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    url TEXT NOT NULL,
    body BYTEA NOT NULL,
    retrieved_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (url)
);`, quoted))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating document table: %w", err)
	}

	return &PSQLStorage{
		db:    db,
		table: quoted,
	}, nil
}

func (s *PSQLStorage) GetDocument(ctx context.Context, url string) (*Document, error) {
	doc := &Document{}
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
SELECT url, body, retrieved_at
FROM %s
WHERE url = $1`, s.table), url).Scan(&doc.URL, &doc.Body, &doc.RetrievedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return doc, nil
}

func (s *PSQLStorage) WriteDocument(ctx context.Context, doc *Document) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (url, body, retrieved_at)
VALUES ($1, $2, $3)
ON CONFLICT (url) DO UPDATE SET
    body = EXCLUDED.body,
    retrieved_at = EXCLUDED.retrieved_at
`, s.table), doc.URL, doc.Body, doc.RetrievedAt.UTC())
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (s *PSQLStorage) DeleteDocuments(ctx context.Context, retrievedBefore time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
DELETE FROM %s
WHERE retrieved_at < $1
`, s.table), retrievedBefore.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	return res.RowsAffected()
}

func (s *PSQLStorage) Close() error {
	return s.db.Close()
}
