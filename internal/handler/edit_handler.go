package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/service"
)

// EditHandler exposes the retrieval-augmented edit pipeline.
type EditHandler struct {
	editor *service.Editor
}

// NewEditHandler creates a new edit handler.
func NewEditHandler(editor *service.Editor) *EditHandler {
	return &EditHandler{editor: editor}
}

// Register sets up edit routes.
func (h *EditHandler) Register(router fiber.Router) {
	router.Post("/edit", h.Edit)
}

// Edit runs the edit pipeline for one request.
func (h *EditHandler) Edit(c fiber.Ctx) error {
	var body struct {
		CollectionID string   `json:"collection_id"`
		Request      string   `json:"request"`
		DocumentIDs  []string `json:"document_ids"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.editor.Edit(c.Context(), body.CollectionID, body.Request, body.DocumentIDs)
	if err != nil {
		if errors.Is(err, port.ErrCollectionRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collection_id is required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "edit request failed, please try again"})
	}

	return c.JSON(result)
}
