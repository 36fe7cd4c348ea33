package port

import (
	"context"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
)

// DocumentStore is the read-side contract against the relational document
// storage. The editing core only reads; document CRUD lives elsewhere.
type DocumentStore interface {
	// GetDocument returns a document by id, or ErrDocumentNotFound.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents in a collection.
	ListDocuments(ctx context.Context, collectionID string) ([]domain.Document, error)

	// ListRecentDocuments returns up to limit documents of a collection
	// ordered by name, used as the last-resort discovery fallback.
	ListRecentDocuments(ctx context.Context, collectionID string, limit int) ([]domain.Document, error)
}
