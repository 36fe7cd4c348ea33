package port

import "context"

// EmbedPurpose tells the embedding backend whether the text is a document
// being indexed or a search phrase. Asymmetric embedding models encode the
// two differently.
type EmbedPurpose string

const (
	PurposeDocument EmbedPurpose = "document"
	PurposeQuery    EmbedPurpose = "query"
)

// AIProvider abstracts the AI/LLM backend for embeddings and generation.
// Implementations can target Ollama, OpenAI, or any compatible API.
//
// No method retries internally: retry policy belongs to callers, since some
// (indexing) are idempotent and tolerate retries while others (interactive
// search) should fail fast.
type AIProvider interface {
	// ModelName returns the identifier of the generation model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string, purpose EmbedPurpose) ([]float32, error)

	// Chat sends a prompt with optional context chunks and returns the LLM response.
	Chat(ctx context.Context, systemPrompt string, userPrompt string, contextChunks []string) (string, error)
}
