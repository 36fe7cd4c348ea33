package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

func seedDocs(docs *store.MemoryStore, collectionID string, n int) {
	for i := 1; i <= n; i++ {
		docs.PutDocument(domain.Document{
			ID:           fmt.Sprintf("doc-%02d", i),
			CollectionID: collectionID,
			Name:         fmt.Sprintf("chapter-%02d.md", i),
			Content:      fmt.Sprintf("content of chapter %d", i),
		})
	}
}

func indexDoc(t *testing.T, vectors *vector.Store, doc domain.Document, vec []float32) {
	t.Helper()
	err := vectors.Upsert(context.Background(), []domain.EmbeddingRecord{{
		ID:     domain.RecordID(doc.ID),
		Vector: vec,
		Metadata: domain.EmbeddingMetadata{
			CollectionID: doc.CollectionID,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
		},
	}})
	require.NoError(t, err)
}

func TestDiscovery_FallbackWhenUnindexed(t *testing.T) {
	docs := store.NewMemoryStore()
	seedDocs(docs, "proj", 7)
	vectors := vector.NewStore(3, vector.NewMemory())
	d := NewDiscovery(&stubAI{}, docs, vectors)

	// One explicit document, nothing indexed: explicit plus up to 5
	// fallback documents, no duplicates.
	candidates, err := d.Discover(context.Background(), "proj", "fix the intro", []string{"doc-03"})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	assert.Equal(t, "doc-03", candidates[0].ID)
	assert.Equal(t, domain.OriginExplicit, candidates[0].Origin)

	seen := map[string]bool{}
	for _, c := range candidates {
		assert.False(t, seen[c.ID], "duplicate candidate %s", c.ID)
		seen[c.ID] = true
	}
	for _, c := range candidates[1:] {
		assert.Equal(t, domain.OriginFallback, c.Origin)
	}
	// First 5 by name are the fallback pool; doc-03 is among them, so the
	// dedup leaves 5 candidates in total.
	assert.Len(t, candidates, 5)
}

func TestDiscovery_ExplicitBeforeRetrieved(t *testing.T) {
	docs := store.NewMemoryStore()
	seedDocs(docs, "proj", 4)
	vectors := vector.NewStore(3, vector.NewMemory())

	doc1, _ := docs.GetDocument(context.Background(), "doc-01")
	doc2, _ := docs.GetDocument(context.Background(), "doc-02")
	indexDoc(t, vectors, *doc1, []float32{1, 0})
	indexDoc(t, vectors, *doc2, []float32{0.9, 0.1})

	d := NewDiscovery(&stubAI{
		embedFn: func(context.Context, string, port.EmbedPurpose) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}, docs, vectors)

	candidates, err := d.Discover(context.Background(), "proj", "rewrite", []string{"doc-04"})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "doc-04", candidates[0].ID)
	assert.Equal(t, domain.OriginExplicit, candidates[0].Origin)
	assert.Equal(t, "doc-01", candidates[1].ID)
	assert.Equal(t, domain.OriginRetrieved, candidates[1].Origin)
	assert.Equal(t, "doc-02", candidates[2].ID)
	assert.Equal(t, domain.OriginRetrieved, candidates[2].Origin)
}

func TestDiscovery_ExplicitNotDuplicatedByRetrieval(t *testing.T) {
	docs := store.NewMemoryStore()
	seedDocs(docs, "proj", 2)
	vectors := vector.NewStore(3, vector.NewMemory())

	doc1, _ := docs.GetDocument(context.Background(), "doc-01")
	indexDoc(t, vectors, *doc1, []float32{1, 0})

	d := NewDiscovery(&stubAI{}, docs, vectors)

	candidates, err := d.Discover(context.Background(), "proj", "rewrite", []string{"doc-01"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.OriginExplicit, candidates[0].Origin)
}

func TestDiscovery_MissingExplicitDocumentSkipped(t *testing.T) {
	docs := store.NewMemoryStore()
	seedDocs(docs, "proj", 2)
	vectors := vector.NewStore(3, vector.NewMemory())
	d := NewDiscovery(&stubAI{}, docs, vectors)

	candidates, err := d.Discover(context.Background(), "proj", "rewrite", []string{"doc-99", "doc-01"})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "doc-01", candidates[0].ID)
}
