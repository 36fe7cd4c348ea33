package service

import (
	"context"
	"log/slog"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

const (
	// discoverTopK is how many similarity matches widen the candidate set.
	discoverTopK = 10

	// fallbackLimit bounds the recent-documents fallback for unindexed
	// collections.
	fallbackLimit = 5
)

// Discovery selects the documents an edit request should consider:
// explicitly referenced documents first, then similarity retrieval, then a
// recent-documents fallback so the pipeline degrades to "something to look
// at" rather than an empty result.
type Discovery struct {
	ai      port.AIProvider
	docs    port.DocumentStore
	vectors *vector.Store
}

// NewDiscovery creates a new file discovery service.
func NewDiscovery(ai port.AIProvider, docs port.DocumentStore, vectors *vector.Store) *Discovery {
	return &Discovery{ai: ai, docs: docs, vectors: vectors}
}

// Discover returns a deduplicated candidate set in first-seen order:
// explicit before retrieved before fallback. Explicit references surfaced
// by the user are never dropped in favor of retrieval.
func (d *Discovery) Discover(ctx context.Context, collectionID, requestText string, explicitIDs []string) ([]domain.CandidateDocument, error) {
	seen := make(map[string]struct{})
	var candidates []domain.CandidateDocument

	add := func(doc domain.Document, origin domain.Origin) {
		if _, ok := seen[doc.ID]; ok {
			return
		}
		seen[doc.ID] = struct{}{}
		candidates = append(candidates, domain.CandidateDocument{Document: doc, Origin: origin})
	}

	for _, id := range explicitIDs {
		doc, err := d.docs.GetDocument(ctx, id)
		if err != nil {
			slog.Warn("explicit document unavailable", "document", id, "error", err)
			continue
		}
		add(*doc, domain.OriginExplicit)
	}

	matches := d.retrieve(ctx, collectionID, requestText)
	for _, m := range matches {
		if _, ok := seen[m.Metadata.DocumentID]; ok {
			continue
		}
		doc, err := d.docs.GetDocument(ctx, m.Metadata.DocumentID)
		if err != nil {
			slog.Warn("retrieved document unavailable", "document", m.Metadata.DocumentID, "error", err)
			continue
		}
		add(*doc, domain.OriginRetrieved)
	}

	if len(matches) == 0 {
		recent, err := d.docs.ListRecentDocuments(ctx, collectionID, fallbackLimit)
		if err != nil {
			slog.Warn("fallback listing failed", "collection", collectionID, "error", err)
		}
		for _, doc := range recent {
			add(doc, domain.OriginFallback)
		}
	}

	return candidates, nil
}

// retrieve runs the similarity search. Any failure here degrades to zero
// matches so the fallback path can still produce candidates.
func (d *Discovery) retrieve(ctx context.Context, collectionID, requestText string) []domain.Match {
	queryVec, err := d.ai.Embed(ctx, requestText, port.PurposeQuery)
	if err != nil {
		slog.Warn("query embedding failed", "collection", collectionID, "error", err)
		return nil
	}

	matches, err := d.vectors.Query(ctx, queryVec, port.QueryOptions{
		TopK:         discoverTopK,
		CollectionID: collectionID,
	})
	if err != nil {
		slog.Warn("similarity search failed", "collection", collectionID, "error", err)
		return nil
	}
	return matches
}
