package vector

import (
	"context"
	"sort"
	"sync"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// Ensure Memory implements the backend interface.
var _ port.VectorBackend = (*Memory)(nil)

// Memory is the in-process fallback backend. It keeps all records in memory
// and answers queries by brute-force cosine similarity. A per-collection id
// index keeps collection-scoped queries from scanning everything.
type Memory struct {
	mu          sync.RWMutex
	order       []string // record ids in insertion order, for stable ties
	records     map[string]domain.EmbeddingRecord
	collections map[string]map[string]struct{} // collectionID -> record ids
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		records:     make(map[string]domain.EmbeddingRecord),
		collections: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) FiltersByCollection() bool { return true }

// Upsert stores records, overwriting by id. The collection index is kept
// consistent: a record moving between collections leaves the old set.
func (m *Memory) Upsert(_ context.Context, records []domain.EmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if prev, ok := m.records[rec.ID]; ok {
			if prev.Metadata.CollectionID != rec.Metadata.CollectionID {
				m.dropFromCollection(prev.Metadata.CollectionID, rec.ID)
			}
		} else {
			m.order = append(m.order, rec.ID)
		}
		m.records[rec.ID] = rec

		set, ok := m.collections[rec.Metadata.CollectionID]
		if !ok {
			set = make(map[string]struct{})
			m.collections[rec.Metadata.CollectionID] = set
		}
		set[rec.ID] = struct{}{}
	}
	return nil
}

// Delete removes records by id and reports how many existed.
func (m *Memory) Delete(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		delete(m.records, id)
		m.dropFromCollection(rec.Metadata.CollectionID, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		deleted++
	}
	return deleted, nil
}

// Query scores every candidate record and returns the topK matches ordered
// by descending similarity, ties broken by insertion order.
func (m *Memory) Query(_ context.Context, vec []float32, opts port.QueryOptions) ([]domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var scope map[string]struct{}
	if opts.CollectionID != "" {
		scope = m.collections[opts.CollectionID]
		if scope == nil {
			return nil, nil
		}
	}

	var matches []domain.Match
	for _, id := range m.order {
		rec := m.records[id]
		if scope != nil {
			if _, ok := scope[id]; !ok {
				continue
			}
		}
		matches = append(matches, domain.Match{
			ID:       rec.ID,
			Score:    cosineSimilarity(vec, rec.Vector),
			Metadata: rec.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) dropFromCollection(collectionID, id string) {
	set, ok := m.collections[collectionID]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m.collections, collectionID)
	}
}
