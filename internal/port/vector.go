package port

import (
	"context"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
)

// QueryOptions scopes a nearest-neighbor query.
type QueryOptions struct {
	TopK int

	// CollectionID limits matches to one collection. Empty means unscoped.
	CollectionID string
}

// VectorBackend is one pluggable vector storage implementation. The system
// must function with only the in-memory backend present.
type VectorBackend interface {
	// Name identifies the backend in logs.
	Name() string

	// FiltersByCollection reports whether Query applies the CollectionID
	// scope server-side. When false, the store wrapper over-fetches and
	// filters by metadata client-side.
	FiltersByCollection() bool

	Upsert(ctx context.Context, records []domain.EmbeddingRecord) error

	// Delete removes records by id and returns how many existed. Missing
	// ids are not an error.
	Delete(ctx context.Context, ids []string) (int, error)

	// Query returns matches ordered by descending cosine similarity, ties
	// broken by insertion order.
	Query(ctx context.Context, vector []float32, opts QueryOptions) ([]domain.Match, error)
}
