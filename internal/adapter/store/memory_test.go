package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

func TestMemoryStore_GetDocument(t *testing.T) {
	s := NewMemoryStore()
	s.PutDocument(domain.Document{ID: "d1", CollectionID: "proj", Name: "a.md", Content: "hello"})

	doc, err := s.GetDocument(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "a.md", doc.Name)

	_, err = s.GetDocument(context.Background(), "ghost")
	assert.ErrorIs(t, err, port.ErrDocumentNotFound)
}

func TestMemoryStore_ListDocumentsOrderedByName(t *testing.T) {
	s := NewMemoryStore()
	s.PutDocument(domain.Document{ID: "d2", CollectionID: "proj", Name: "b.md"})
	s.PutDocument(domain.Document{ID: "d1", CollectionID: "proj", Name: "a.md"})
	s.PutDocument(domain.Document{ID: "d3", CollectionID: "other", Name: "c.md"})

	docs, err := s.ListDocuments(context.Background(), "proj")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Name)
	assert.Equal(t, "b.md", docs[1].Name)
}

func TestMemoryStore_ListRecentDocumentsLimit(t *testing.T) {
	s := NewMemoryStore()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		s.PutDocument(domain.Document{ID: name, CollectionID: "proj", Name: name})
	}

	docs, err := s.ListRecentDocuments(context.Background(), "proj", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Name)
}
