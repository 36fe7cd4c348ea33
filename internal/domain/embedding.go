package domain

// EmbeddingMetadata ties a stored vector back to its source document and the
// collection it must be scoped to.
type EmbeddingMetadata struct {
	CollectionID string `json:"collection_id"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
}

// EmbeddingRecord is one (id, vector, metadata) tuple in the vector store.
type EmbeddingRecord struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"-"`
	Metadata EmbeddingMetadata `json:"metadata"`
}

// RecordID derives the vector store id for a document. The id is
// deterministic so re-indexing the same document overwrites its record
// instead of duplicating it.
func RecordID(documentID string) string {
	return "doc-" + documentID
}

// Match is a nearest-neighbor result, ordered by descending cosine
// similarity.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata EmbeddingMetadata `json:"metadata"`
}
