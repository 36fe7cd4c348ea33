package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
)

func chatReply(reply string) *stubAI {
	return &stubAI{
		chatFn: func(context.Context, string, string, []string) (string, error) {
			return reply, nil
		},
	}
}

func TestDiffGenerator_ParsesChanges(t *testing.T) {
	g := NewDiffGenerator(chatReply(`{"changes":[{"oldContent":"quick","newContent":"slow"}]}`))
	doc := domain.Document{ID: "d1", Content: "the quick brown fox"}

	changes, err := g.Generate(context.Background(), doc, "make it slower")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "quick", changes[0].OldContent)
	assert.Equal(t, "slow", changes[0].NewContent)
}

func TestDiffGenerator_ToleratesFencedJSON(t *testing.T) {
	reply := "Here you go:\n```json\n{\"changes\":[{\"oldContent\":\"quick\",\"newContent\":\"slow\"}]}\n```"
	g := NewDiffGenerator(chatReply(reply))
	doc := domain.Document{ID: "d1", Content: "the quick brown fox"}

	changes, err := g.Generate(context.Background(), doc, "make it slower")
	require.NoError(t, err)
	require.Len(t, changes, 1)
}

func TestDiffGenerator_SkipsShortDocuments(t *testing.T) {
	called := false
	stub := &stubAI{chatFn: func(context.Context, string, string, []string) (string, error) {
		called = true
		return "", nil
	}}
	g := NewDiffGenerator(stub)

	changes, err := g.Generate(context.Background(), domain.Document{ID: "d1", Content: "tiny"}, "edit")
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.False(t, called, "too little content to safely anchor a change")
}

func TestDiffGenerator_MalformedOutputIsZeroChanges(t *testing.T) {
	replies := []string{
		"I think you should rewrite the intro.",
		`{"changes": "not an array"}`,
		`{"other": []}`,
		`{"changes":[{"oldContent":"x"}]}`,
		"",
	}
	doc := domain.Document{ID: "d1", Content: "the quick brown fox"}
	for _, reply := range replies {
		g := NewDiffGenerator(chatReply(reply))
		changes, err := g.Generate(context.Background(), doc, "edit")
		require.NoError(t, err, "malformed output must not become a pipeline error")
		assert.Empty(t, changes, "reply %q", reply)
	}
}

func TestDiffGenerator_EmptyChangesArray(t *testing.T) {
	g := NewDiffGenerator(chatReply(`{"changes":[]}`))
	doc := domain.Document{ID: "d1", Content: "the quick brown fox"}

	changes, err := g.Generate(context.Background(), doc, "edit")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffGenerator_DiscardsUnanchoredChanges(t *testing.T) {
	reply := `{"changes":[
		{"oldContent":"quick","newContent":"slow"},
		{"oldContent":"QUICK","newContent":"SLOW"},
		{"oldContent":"","newContent":"something"}
	]}`
	g := NewDiffGenerator(chatReply(reply))
	doc := domain.Document{ID: "d1", Content: "the quick brown fox"}

	changes, err := g.Generate(context.Background(), doc, "edit")
	require.NoError(t, err)
	require.Len(t, changes, 1, "case-sensitive anchor matching, never guess a location")
	assert.Equal(t, "quick", changes[0].OldContent)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare", `{"changes":[]}`, `{"changes":[]}`},
		{"fenced", "```json\n{\"changes\":[]}\n```", `{"changes":[]}`},
		{"fenced no lang", "```\n{\"changes\":[]}\n```", `{"changes":[]}`},
		{"prose around", `Sure: {"changes":[]} hope that helps`, `{"changes":[]}`},
		{"no object", "no json here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.reply))
		})
	}
}
