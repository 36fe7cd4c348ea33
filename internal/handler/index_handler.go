package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/service"
)

// collectionIndexTimeout bounds one background collection indexing run.
const collectionIndexTimeout = 30 * time.Minute

// IndexHandler exposes indexing endpoints: synchronous per-document and
// background per-collection.
type IndexHandler struct {
	indexer *service.Indexer
	tracker *JobTracker
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(indexer *service.Indexer, tracker *JobTracker) *IndexHandler {
	return &IndexHandler{indexer: indexer, tracker: tracker}
}

// Register sets up index routes.
func (h *IndexHandler) Register(router fiber.Router) {
	index := router.Group("/index")
	index.Post("/documents/:id", h.IndexDocument)
	index.Delete("/documents/:id", h.RemoveDocument)
	index.Post("/collections/:id", h.IndexCollection)
}

// IndexDocument (re)indexes a single document synchronously.
func (h *IndexHandler) IndexDocument(c fiber.Ctx) error {
	id := c.Params("id")
	indexed, err := h.indexer.IndexDocument(c.Context(), id)
	if err != nil {
		if errors.Is(err, port.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "indexing failed"})
	}
	return c.JSON(fiber.Map{"document_id": id, "indexed": indexed})
}

// RemoveDocument deletes a document's record from the index.
func (h *IndexHandler) RemoveDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.indexer.RemoveFromIndex(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "removal failed"})
	}
	return c.JSON(fiber.Map{"document_id": id, "removed": true})
}

// IndexCollection starts a background job indexing every document in a
// collection and returns the job id immediately.
func (h *IndexHandler) IndexCollection(c fiber.Ctx) error {
	collectionID := c.Params("id")
	jobID := uuid.NewString()
	h.tracker.CreateJob(jobID, collectionID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), collectionIndexTimeout)
		defer cancel()

		stats, err := h.indexer.IndexCollection(ctx, collectionID, func(done, total int) {
			h.tracker.UpdateProgress(jobID, done, total)
		})
		if err != nil {
			slog.Error("collection indexing failed", "collection", collectionID, "job", jobID, "error", err)
			h.tracker.Fail(jobID, err)
			return
		}
		h.tracker.Complete(jobID, stats)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID, "collection_id": collectionID})
}
