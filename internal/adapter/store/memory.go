package store

import (
	"context"
	"sort"
	"sync"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

var _ port.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory document store used in tests and when no
// DATABASE_URL is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string]domain.Document)}
}

// PutDocument stores or replaces a document.
func (s *MemoryStore) PutDocument(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
}

// GetDocument retrieves a document by id.
func (s *MemoryStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, port.ErrDocumentNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents in a collection ordered by name.
func (s *MemoryStore) ListDocuments(_ context.Context, collectionID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.CollectionID == collectionID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// ListRecentDocuments returns up to limit documents ordered by name.
func (s *MemoryStore) ListRecentDocuments(ctx context.Context, collectionID string, limit int) ([]domain.Document, error) {
	docs, err := s.ListDocuments(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}
