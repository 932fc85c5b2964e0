package storage

import (
	"context"
	"time"
)

// Storage keeps retrieved upstream documents, so that repeated
// lookups within a short window don't hit the network.
type Storage interface {
	// Retrieves the document most recently written for the URL.
	// Returns nil (and no error) if there is none.
	GetDocument(ctx context.Context, url string) (*Document, error)

	// Writes a document. An existing document for the same URL
	// is replaced.
	WriteDocument(ctx context.Context, doc *Document) error

	// Removes all documents retrieved before the given time.
	// Returns the number of documents removed.
	DeleteDocuments(ctx context.Context, retrievedBefore time.Time) (int64, error)

	Close() error
}

// A raw upstream document, e.g. a departure board or a train's stop
// list.
type Document struct {
	URL         string
	Body        []byte
	RetrievedAt time.Time
}
