package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/store"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

func newAssistant(ai *stubAI, docs *store.MemoryStore, vectors *vector.Store) *Assistant {
	editor := NewEditor(NewDiscovery(ai, docs, vectors), NewDiffGenerator(ai))
	return NewAssistant(ai, docs, vectors, editor)
}

func TestAssistant_Classify(t *testing.T) {
	tests := []struct {
		reply string
		want  Intent
	}{
		{"edit", IntentEdit},
		{"Search", IntentSearch},
		{"  chat\n", IntentChat},
		{"I believe this is an edit request", IntentChat},
		{"", IntentChat},
	}
	for _, tt := range tests {
		a := newAssistant(chatReply(tt.reply), store.NewMemoryStore(), vector.NewStore(3, vector.NewMemory()))
		assert.Equal(t, tt.want, a.Classify(context.Background(), "whatever"), "reply %q", tt.reply)
	}
}

func TestAssistant_ClassifyDefaultsToChatOnError(t *testing.T) {
	ai := &stubAI{chatFn: func(context.Context, string, string, []string) (string, error) {
		return "", errors.New("generation service down")
	}}
	a := newAssistant(ai, store.NewMemoryStore(), vector.NewStore(3, vector.NewMemory()))
	assert.Equal(t, IntentChat, a.Classify(context.Background(), "whatever"))
}

func TestAssistant_RequiresCollection(t *testing.T) {
	a := newAssistant(&stubAI{}, store.NewMemoryStore(), vector.NewStore(3, vector.NewMemory()))
	_, err := a.Assist(context.Background(), "", "hello", nil)
	assert.ErrorIs(t, err, port.ErrCollectionRequired)
}

func TestAssistant_SearchIntent(t *testing.T) {
	docs := store.NewMemoryStore()
	docs.PutDocument(domain.Document{ID: "d1", CollectionID: "proj", Name: "a.md", Content: "about whales"})
	vectors := vector.NewStore(3, vector.NewMemory())
	require.NoError(t, vectors.Upsert(context.Background(), []domain.EmbeddingRecord{{
		ID:     domain.RecordID("d1"),
		Vector: []float32{1, 0},
		Metadata: domain.EmbeddingMetadata{
			CollectionID: "proj", DocumentID: "d1", DocumentName: "a.md",
		},
	}}))

	ai := &stubAI{
		chatFn: func(context.Context, string, string, []string) (string, error) {
			return "search", nil
		},
		embedFn: func(context.Context, string, port.EmbedPurpose) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}
	a := newAssistant(ai, docs, vectors)

	result, err := a.Assist(context.Background(), "proj", "find the whale notes", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentSearch, result.Intent)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "d1", result.Matches[0].Document.ID)
	assert.InDelta(t, 1.0, result.Matches[0].Score, 1e-9)
}

func TestAssistant_ChatIntentUsesRetrievedContext(t *testing.T) {
	docs := store.NewMemoryStore()
	docs.PutDocument(domain.Document{ID: "d1", CollectionID: "proj", Name: "whales.md", Content: "whales are mammals"})
	vectors := vector.NewStore(3, vector.NewMemory())
	require.NoError(t, vectors.Upsert(context.Background(), []domain.EmbeddingRecord{{
		ID:     domain.RecordID("d1"),
		Vector: []float32{1, 0},
		Metadata: domain.EmbeddingMetadata{
			CollectionID: "proj", DocumentID: "d1", DocumentName: "whales.md",
		},
	}}))

	var sawContext bool
	ai := &stubAI{
		chatFn: func(_ context.Context, systemPrompt, _ string, contextChunks []string) (string, error) {
			if strings.Contains(systemPrompt, "Classify") {
				return "chat", nil
			}
			for _, chunk := range contextChunks {
				if strings.Contains(chunk, "whales are mammals") {
					sawContext = true
				}
			}
			return "Whales are mammals, see whales.md.", nil
		},
		embedFn: func(context.Context, string, port.EmbedPurpose) ([]float32, error) {
			return []float32{1, 0}, nil
		},
	}
	a := newAssistant(ai, docs, vectors)

	result, err := a.Assist(context.Background(), "proj", "are whales fish?", nil)
	require.NoError(t, err)
	assert.Equal(t, IntentChat, result.Intent)
	assert.True(t, sawContext, "chat must receive retrieved document content")
	assert.Contains(t, result.Answer, "mammals")
}
