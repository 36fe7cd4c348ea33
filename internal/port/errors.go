package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrCollectionRequired is fatal to a whole edit request: without a
	// collection identifier there is nothing to discover against.
	ErrCollectionRequired = errors.New("collection identifier required")

	ErrDocumentNotFound = errors.New("document not found")

	// ErrNoBackendAvailable means every vector backend in the chain either
	// had its breaker tripped or failed the operation.
	ErrNoBackendAvailable = errors.New("no vector backend available")

	// ErrMalformedModelOutput marks a generation response that could not be
	// parsed against the strict changes schema. Callers treat it as zero
	// changes for the document, never as a fatal pipeline error.
	ErrMalformedModelOutput = errors.New("malformed model output")
)
