package storage

import (
	"context"
	"sync"
	"time"
)

// In memory implementation of Storage. Backs the memory-storage
// cache, and stands in for the database backends in tests.
type MemoryStorage struct {
	Documents map[string]*Document

	mutex sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Documents: map[string]*Document{},
	}
}

func (s *MemoryStorage) GetDocument(ctx context.Context, url string) (*Document, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, found := s.Documents[url]
	if !found {
		return nil, nil
	}

	cp := *doc
	cp.Body = append([]byte{}, doc.Body...)
	return &cp, nil
}

func (s *MemoryStorage) WriteDocument(ctx context.Context, doc *Document) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *doc
	cp.Body = append([]byte{}, doc.Body...)
	s.Documents[doc.URL] = &cp
	return nil
}

func (s *MemoryStorage) DeleteDocuments(ctx context.Context, retrievedBefore time.Time) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n := int64(0)
	for url, doc := range s.Documents {
		if doc.RetrievedAt.Before(retrievedBefore) {
			delete(s.Documents, url)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
