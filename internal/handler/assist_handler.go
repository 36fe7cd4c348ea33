package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/service"
)

// AssistHandler routes free-text requests through intent classification.
type AssistHandler struct {
	assistant *service.Assistant
}

// NewAssistHandler creates a new assist handler.
func NewAssistHandler(assistant *service.Assistant) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// Register sets up assist routes.
func (h *AssistHandler) Register(router fiber.Router) {
	router.Post("/assist", h.Assist)
}

// Assist classifies a request and serves it as edit, search, or chat.
func (h *AssistHandler) Assist(c fiber.Ctx) error {
	var body struct {
		CollectionID string   `json:"collection_id"`
		Request      string   `json:"request"`
		DocumentIDs  []string `json:"document_ids"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.assistant.Assist(c.Context(), body.CollectionID, body.Request, body.DocumentIDs)
	if err != nil {
		if errors.Is(err, port.ErrCollectionRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "collection_id is required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "request failed, please try again"})
	}

	return c.JSON(result)
}
