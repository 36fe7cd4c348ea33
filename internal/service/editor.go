package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// maxConcurrentGenerations bounds the per-document generation fan-out so a
// wide discovery result does not stampede the generation service.
const maxConcurrentGenerations = 4

// Editor sequences the edit pipeline: discovery, per-document diff
// generation, minimization and occurrence resolution, aggregation.
type Editor struct {
	discovery *Discovery
	generator *DiffGenerator
}

// NewEditor creates the edit orchestrator.
func NewEditor(discovery *Discovery, generator *DiffGenerator) *Editor {
	return &Editor{discovery: discovery, generator: generator}
}

// Edit runs the full pipeline for one request. Only discovery-stage
// failures abort the request; a failure in any single document's generation
// is logged and treated as zero changes for that document. Generation runs
// concurrently per document but results are concatenated in discovery order
// for deterministic output.
func (e *Editor) Edit(ctx context.Context, collectionID, requestText string, explicitIDs []string) (*domain.EditResult, error) {
	if strings.TrimSpace(collectionID) == "" {
		return nil, port.ErrCollectionRequired
	}

	candidates, err := e.discovery.Discover(ctx, collectionID, requestText, explicitIDs)
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	if len(candidates) == 0 {
		return &domain.EditResult{
			ResultMessage: "I could not find any documents to edit in this project.",
			Suggestions:   []domain.Suggestion{},
			FilesToOpen:   []domain.FileToOpen{},
		}, nil
	}

	rawChanges := make([][]domain.RawChange, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGenerations)
	for i, cand := range candidates {
		g.Go(func() error {
			changes, err := e.generator.Generate(gctx, cand.Document, requestText)
			if err != nil {
				slog.Warn("diff generation failed",
					"document", cand.ID,
					"origin", cand.Origin,
					"error", err,
				)
				return nil
			}
			rawChanges[i] = changes
			return nil
		})
	}
	_ = g.Wait()

	var suggestions []domain.Suggestion
	var filesToOpen []domain.FileToOpen
	for i, cand := range candidates {
		if len(rawChanges[i]) == 0 {
			continue
		}
		resolved := ResolveChanges(cand.Document, rawChanges[i])
		if len(resolved) == 0 {
			continue
		}
		suggestions = append(suggestions, resolved...)
		filesToOpen = append(filesToOpen, domain.FileToOpen{
			DocumentID: cand.ID,
			Name:       cand.Name,
			Content:    cand.Content,
		})
	}

	result := &domain.EditResult{
		EditSummary: domain.EditSummary{
			FilesAnalyzed:   len(candidates),
			SuggestionsMade: len(suggestions),
		},
		Suggestions: suggestions,
		FilesToOpen: filesToOpen,
	}
	if len(suggestions) == 0 {
		result.ResultMessage = "I reviewed the documents but no changes are needed for this request."
		result.Suggestions = []domain.Suggestion{}
		result.FilesToOpen = []domain.FileToOpen{}
		return result, nil
	}

	result.ResultMessage = fmt.Sprintf("I suggested %d change(s) across %d file(s). Review each suggestion in the editor.",
		len(suggestions), len(filesToOpen))
	return result, nil
}
