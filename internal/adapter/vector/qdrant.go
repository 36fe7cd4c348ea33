package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

var _ port.VectorBackend = (*Qdrant)(nil)

// QdrantConfig holds connection settings for a Qdrant instance.
type QdrantConfig struct {
	BaseURL    string // e.g. http://localhost:6333
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Qdrant is the network-backed primary vector backend, a minimal REST
// client. It does not apply collection scoping server-side; the store
// wrapper over-fetches and filters by metadata instead.
type Qdrant struct {
	cfg        QdrantConfig
	httpClient *http.Client
}

// NewQdrant creates a Qdrant-backed vector backend.
func NewQdrant(cfg QdrantConfig) *Qdrant {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Qdrant{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (q *Qdrant) Name() string { return "qdrant" }

func (q *Qdrant) FiltersByCollection() bool { return false }

// EnsureCollection creates the Qdrant collection if it does not exist.
// Qdrant returns 200 for an existing collection with the same schema.
func (q *Qdrant) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("qdrant: invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", q.cfg.Collection), body, nil)
}

// Upsert writes points with deterministic UUIDv5 point ids derived from the
// record id, so re-upserting a record overwrites it. The record id and
// metadata travel in the payload.
func (q *Qdrant) Upsert(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]map[string]any, len(records))
	for i, rec := range records {
		points[i] = map[string]any{
			"id":     pointID(rec.ID),
			"vector": rec.Vector,
			"payload": map[string]any{
				"record_id":     rec.ID,
				"collection_id": rec.Metadata.CollectionID,
				"document_id":   rec.Metadata.DocumentID,
				"document_name": rec.Metadata.DocumentName,
			},
		}
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", q.cfg.Collection)
	if err := q.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

// Delete removes points by record id. Qdrant does not report how many points
// existed, so the requested count is returned.
func (q *Qdrant) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	points := make([]string, len(ids))
	for i, id := range ids {
		points[i] = pointID(id)
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", q.cfg.Collection)
	if err := q.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return 0, fmt.Errorf("qdrant delete: %w", err)
	}
	return len(ids), nil
}

// Query runs a nearest-neighbor search. The CollectionID option is ignored
// here; scoping happens in the store wrapper.
func (q *Qdrant) Query(ctx context.Context, vec []float32, opts port.QueryOptions) ([]domain.Match, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"vector":       vec,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", q.cfg.Collection)
	if err := q.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	matches := make([]domain.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		m := domain.Match{Score: r.Score}
		if v, ok := r.Payload["record_id"].(string); ok {
			m.ID = v
		}
		if v, ok := r.Payload["collection_id"].(string); ok {
			m.Metadata.CollectionID = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			m.Metadata.DocumentID = v
		}
		if v, ok := r.Payload["document_name"].(string); ok {
			m.Metadata.DocumentName = v
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// do issues one JSON request and decodes the response into out when non-nil.
func (q *Qdrant) do(ctx context.Context, method, path string, payload any, out any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.cfg.APIKey != "" {
		req.Header.Set("api-key", q.cfg.APIKey)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant API error (%d): %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// pointID maps a record id to a valid Qdrant point id (UUID or integer
// required) deterministically.
func pointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}
