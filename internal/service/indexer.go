package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// Indexer keeps the vector store in sync with document content. It is
// invoked by document create/update/delete hooks and by the background
// collection-indexing job.
type Indexer struct {
	ai      port.AIProvider
	docs    port.DocumentStore
	vectors *vector.Store
}

// NewIndexer creates a new indexing service.
func NewIndexer(ai port.AIProvider, docs port.DocumentStore, vectors *vector.Store) *Indexer {
	return &Indexer{ai: ai, docs: docs, vectors: vectors}
}

// IndexStats aggregates a collection indexing run.
type IndexStats struct {
	Total   int `json:"total"`
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// IndexDocument embeds one document and upserts its record. Empty documents
// are not embedded (a meaningless vector would pollute search); the call
// still succeeds and reports indexed=false.
func (s *Indexer) IndexDocument(ctx context.Context, documentID string) (bool, error) {
	doc, err := s.docs.GetDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("fetch document: %w", err)
	}
	if doc.Content == "" {
		slog.Info("skipping empty document", "document", documentID)
		return false, nil
	}

	vec, err := s.ai.Embed(ctx, doc.Content, port.PurposeDocument)
	if err != nil {
		return false, fmt.Errorf("embed document: %w", err)
	}

	record := domain.EmbeddingRecord{
		ID:     domain.RecordID(doc.ID),
		Vector: vec,
		Metadata: domain.EmbeddingMetadata{
			CollectionID: doc.CollectionID,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
		},
	}
	if err := s.vectors.Upsert(ctx, []domain.EmbeddingRecord{record}); err != nil {
		return false, fmt.Errorf("upsert embedding: %w", err)
	}
	return true, nil
}

// IndexCollection indexes every document in a collection, continuing past
// individual failures: one bad document must not abort the rest. The
// optional progress callback receives (done, total) after each document.
func (s *Indexer) IndexCollection(ctx context.Context, collectionID string, progress func(done, total int)) (IndexStats, error) {
	docs, err := s.docs.ListDocuments(ctx, collectionID)
	if err != nil {
		return IndexStats{}, fmt.Errorf("list documents: %w", err)
	}

	stats := IndexStats{Total: len(docs)}
	for i, doc := range docs {
		indexed, err := s.IndexDocument(ctx, doc.ID)
		switch {
		case err != nil:
			stats.Failed++
			slog.Error("indexing document failed", "document", doc.ID, "error", err)
		case indexed:
			stats.Indexed++
		default:
			stats.Skipped++
		}
		if progress != nil {
			progress(i+1, len(docs))
		}
	}

	slog.Info("collection indexed",
		"collection", collectionID,
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}

// RemoveFromIndex deletes a document's record. Records that were never
// indexed are not an error.
func (s *Indexer) RemoveFromIndex(ctx context.Context, documentID string) error {
	deleted, err := s.vectors.Delete(ctx, []string{domain.RecordID(documentID)})
	if err != nil {
		return fmt.Errorf("delete embedding: %w", err)
	}
	if deleted == 0 {
		slog.Debug("document was not indexed", "document", documentID)
	}
	return nil
}
