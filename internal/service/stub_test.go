package service

import (
	"context"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

var _ port.AIProvider = (*stubAI)(nil)

// stubAI is a programmable AIProvider for tests.
type stubAI struct {
	embedFn func(ctx context.Context, text string, purpose port.EmbedPurpose) ([]float32, error)
	chatFn  func(ctx context.Context, systemPrompt, userPrompt string, contextChunks []string) (string, error)
}

func (s *stubAI) ModelName() string { return "stub" }

func (s *stubAI) Embed(ctx context.Context, text string, purpose port.EmbedPurpose) ([]float32, error) {
	if s.embedFn != nil {
		return s.embedFn(ctx, text, purpose)
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubAI) Chat(ctx context.Context, systemPrompt, userPrompt string, contextChunks []string) (string, error) {
	if s.chatFn != nil {
		return s.chatFn(ctx, systemPrompt, userPrompt, contextChunks)
	}
	return "", nil
}
