package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

// Store is the public vector store: an ordered chain of backends behind one
// interface. Each operation walks the chain, skipping backends whose breaker
// has tripped; the first backend that succeeds serves the operation. The
// last backend is expected to be the in-process Memory fallback, so the
// store keeps working through a primary outage.
type Store struct {
	slots []slot
}

type slot struct {
	backend port.VectorBackend
	breaker *Breaker
}

// NewStore builds a store over backends in priority order, giving each its
// own breaker with the given failure threshold.
func NewStore(breakerThreshold int, backends ...port.VectorBackend) *Store {
	slots := make([]slot, len(backends))
	for i, b := range backends {
		slots[i] = slot{backend: b, breaker: NewBreaker(breakerThreshold)}
	}
	return &Store{slots: slots}
}

// Upsert writes records to the first healthy backend.
func (s *Store) Upsert(ctx context.Context, records []domain.EmbeddingRecord) error {
	_, err := s.attempt(ctx, "upsert", func(ctx context.Context, b port.VectorBackend) (int, error) {
		return 0, b.Upsert(ctx, records)
	})
	return err
}

// Delete removes records by id from the first healthy backend and returns
// how many were deleted. Missing ids are tolerated.
func (s *Store) Delete(ctx context.Context, ids []string) (int, error) {
	return s.attempt(ctx, "delete", func(ctx context.Context, b port.VectorBackend) (int, error) {
		return b.Delete(ctx, ids)
	})
}

// Query answers a nearest-neighbor search from the first healthy backend.
// When the serving backend cannot scope by collection server-side, the
// store over-fetches (topK*3, minimum 10), filters by metadata and
// truncates to topK.
func (s *Store) Query(ctx context.Context, vec []float32, opts port.QueryOptions) ([]domain.Match, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}

	var matches []domain.Match
	_, err := s.attempt(ctx, "query", func(ctx context.Context, b port.VectorBackend) (int, error) {
		if opts.CollectionID == "" || b.FiltersByCollection() {
			res, err := b.Query(ctx, vec, port.QueryOptions{TopK: topK, CollectionID: opts.CollectionID})
			if err != nil {
				return 0, err
			}
			matches = res
			return 0, nil
		}

		fetchK := topK * 3
		if fetchK < 10 {
			fetchK = 10
		}
		res, err := b.Query(ctx, vec, port.QueryOptions{TopK: fetchK})
		if err != nil {
			return 0, err
		}
		filtered := res[:0]
		for _, m := range res {
			if m.Metadata.CollectionID == opts.CollectionID {
				filtered = append(filtered, m)
			}
		}
		if len(filtered) > topK {
			filtered = filtered[:topK]
		}
		matches = filtered
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// attempt walks the chain until one backend serves the operation.
func (s *Store) attempt(ctx context.Context, op string, call func(context.Context, port.VectorBackend) (int, error)) (int, error) {
	var lastErr error
	for _, sl := range s.slots {
		if !sl.breaker.Available() {
			continue
		}
		n, err := call(ctx, sl.backend)
		if err != nil {
			sl.breaker.Failure()
			slog.Warn("vector backend failed",
				"backend", sl.backend.Name(),
				"op", op,
				"available", sl.breaker.Available(),
				"error", err,
			)
			lastErr = err
			continue
		}
		sl.breaker.Success()
		return n, nil
	}
	if lastErr != nil {
		return 0, fmt.Errorf("%w: %w", port.ErrNoBackendAvailable, lastErr)
	}
	return 0, port.ErrNoBackendAvailable
}
