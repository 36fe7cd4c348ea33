package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/adapter/vector"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// Intent is the coarse classification of a free-text request.
type Intent string

const (
	IntentEdit   Intent = "edit"
	IntentSearch Intent = "search"
	IntentChat   Intent = "chat"
)

const classifySystemPrompt = `Classify the user's request about their documents into exactly one word:
edit - the user wants document content changed
search - the user wants to find documents or passages
chat - the user asks a question or wants to discuss
Reply with only the single word.`

const chatSystemPrompt = `You are a writing assistant with access to the user's project documents.
Answer using the provided document context. Be concise and cite document names when referencing content.`

// SearchHit is one document matched by the search intent.
type SearchHit struct {
	Document domain.Document `json:"document"`
	Score    float64         `json:"score"`
}

// AssistResult carries the intent plus the intent-specific payload.
type AssistResult struct {
	Intent  Intent             `json:"intent"`
	Edit    *domain.EditResult `json:"edit,omitempty"`
	Matches []SearchHit        `json:"matches,omitempty"`
	Answer  string             `json:"answer,omitempty"`
}

// Assistant is the front door for free-text requests: it classifies the
// request and routes it to editing, search, or retrieval-augmented chat.
type Assistant struct {
	ai      port.AIProvider
	docs    port.DocumentStore
	vectors *vector.Store
	editor  *Editor
}

// NewAssistant creates the assist service.
func NewAssistant(ai port.AIProvider, docs port.DocumentStore, vectors *vector.Store, editor *Editor) *Assistant {
	return &Assistant{ai: ai, docs: docs, vectors: vectors, editor: editor}
}

// Classify maps a request to an intent with one constrained generation
// call. Any failure or unexpected reply defaults to chat, the least
// destructive path.
func (a *Assistant) Classify(ctx context.Context, requestText string) Intent {
	reply, err := a.ai.Chat(ctx, classifySystemPrompt, requestText, nil)
	if err != nil {
		slog.Warn("intent classification failed", "error", err)
		return IntentChat
	}
	switch Intent(strings.ToLower(strings.TrimSpace(reply))) {
	case IntentEdit:
		return IntentEdit
	case IntentSearch:
		return IntentSearch
	case IntentChat:
		return IntentChat
	default:
		slog.Warn("unrecognized intent reply", "reply", reply)
		return IntentChat
	}
}

// Assist classifies and serves one request.
func (a *Assistant) Assist(ctx context.Context, collectionID, requestText string, explicitIDs []string) (*AssistResult, error) {
	if strings.TrimSpace(collectionID) == "" {
		return nil, port.ErrCollectionRequired
	}

	intent := a.Classify(ctx, requestText)
	switch intent {
	case IntentEdit:
		res, err := a.editor.Edit(ctx, collectionID, requestText, explicitIDs)
		if err != nil {
			return nil, err
		}
		return &AssistResult{Intent: IntentEdit, Edit: res}, nil

	case IntentSearch:
		hits, err := a.search(ctx, collectionID, requestText)
		if err != nil {
			return nil, err
		}
		return &AssistResult{Intent: IntentSearch, Matches: hits}, nil

	default:
		answer, err := a.chat(ctx, collectionID, requestText)
		if err != nil {
			return nil, err
		}
		return &AssistResult{Intent: IntentChat, Answer: answer}, nil
	}
}

// search embeds the request and returns the matching documents with scores.
func (a *Assistant) search(ctx context.Context, collectionID, requestText string) ([]SearchHit, error) {
	queryVec, err := a.ai.Embed(ctx, requestText, port.PurposeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := a.vectors.Query(ctx, queryVec, port.QueryOptions{
		TopK:         discoverTopK,
		CollectionID: collectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, 0, len(matches))
	for _, m := range matches {
		doc, err := a.docs.GetDocument(ctx, m.Metadata.DocumentID)
		if err != nil {
			slog.Warn("matched document unavailable", "document", m.Metadata.DocumentID, "error", err)
			continue
		}
		hits = append(hits, SearchHit{Document: *doc, Score: m.Score})
	}
	return hits, nil
}

// chat answers a question with retrieval-augmented context from the
// collection's most similar documents.
func (a *Assistant) chat(ctx context.Context, collectionID, requestText string) (string, error) {
	hits, err := a.search(ctx, collectionID, requestText)
	if err != nil {
		slog.Warn("retrieval for chat failed", "collection", collectionID, "error", err)
		hits = nil
	}

	contextChunks := make([]string, 0, len(hits))
	for _, hit := range hits {
		contextChunks = append(contextChunks, fmt.Sprintf("Document %q:\n%s", hit.Document.Name, hit.Document.Content))
	}

	answer, err := a.ai.Chat(ctx, chatSystemPrompt, requestText, contextChunks)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return answer, nil
}
