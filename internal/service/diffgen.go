package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// minDocumentLength is the smallest document worth editing; below this there
// is too little content to safely anchor a change.
const minDocumentLength = 10

const diffSystemPrompt = `You are a precise document editing assistant.
Given a document and an edit request, propose content changes as exact text replacements.

Respond ONLY with a JSON object of this shape:
{"changes": [{"oldContent": "...", "newContent": "..."}]}

Rules:
- oldContent MUST be an exact, character-for-character substring of the document.
- Keep each oldContent as short as possible while staying unambiguous.
- Return {"changes": []} if no change is warranted.
- No prose, no markdown, no fields other than "changes".`

// DiffGenerator asks the generation model for replacement pairs anchored to
// exact substrings of a document.
type DiffGenerator struct {
	ai port.AIProvider
}

// NewDiffGenerator creates a new diff generator.
func NewDiffGenerator(ai port.AIProvider) *DiffGenerator {
	return &DiffGenerator{ai: ai}
}

// Generate proposes raw changes for one document. Documents below the
// minimum length are skipped. A malformed model response yields zero
// changes, never an error: one document's bad output must not abort the
// batch. Changes whose anchor is not found verbatim are discarded — the
// pipeline never guesses a location.
func (g *DiffGenerator) Generate(ctx context.Context, doc domain.Document, requestText string) ([]domain.RawChange, error) {
	if len(doc.Content) < minDocumentLength {
		return nil, nil
	}

	userPrompt := fmt.Sprintf("Edit request: %s\n\nDocument %q:\n---\n%s\n---", requestText, doc.Name, doc.Content)

	reply, err := g.ai.Chat(ctx, diffSystemPrompt, userPrompt, nil)
	if err != nil {
		return nil, fmt.Errorf("generate changes: %w", err)
	}

	proposed, err := parseChanges(reply)
	if err != nil {
		slog.Warn("discarding model output", "document", doc.ID, "error", err)
		return nil, nil
	}

	changes := proposed[:0]
	for _, ch := range proposed {
		if ch.OldContent == "" {
			continue
		}
		if !strings.Contains(doc.Content, ch.OldContent) {
			slog.Debug("anchor not found in document", "document", doc.ID, "anchor_len", len(ch.OldContent))
			continue
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

// parseChanges validates the model reply against the strict changes schema.
// The reply is untrusted: fenced code blocks and surrounding prose are
// tolerated, anything else maps to ErrMalformedModelOutput.
func parseChanges(reply string) ([]domain.RawChange, error) {
	raw := extractJSONObject(reply)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply", port.ErrMalformedModelOutput)
	}

	var payload struct {
		Changes []struct {
			OldContent *string `json:"oldContent"`
			NewContent *string `json:"newContent"`
		} `json:"changes"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMalformedModelOutput, err)
	}
	if payload.Changes == nil {
		return nil, fmt.Errorf("%w: missing changes array", port.ErrMalformedModelOutput)
	}

	changes := make([]domain.RawChange, 0, len(payload.Changes))
	for _, ch := range payload.Changes {
		if ch.OldContent == nil || ch.NewContent == nil {
			return nil, fmt.Errorf("%w: change pair missing oldContent or newContent", port.ErrMalformedModelOutput)
		}
		changes = append(changes, domain.RawChange{OldContent: *ch.OldContent, NewContent: *ch.NewContent})
	}
	return changes, nil
}

// extractJSONObject pulls the outermost JSON object out of a model reply,
// stripping markdown fences and any prose around it.
func extractJSONObject(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
