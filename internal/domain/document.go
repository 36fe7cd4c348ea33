package domain

// Document is one text document owned by a collection (a user's project).
type Document struct {
	ID           string `json:"id"`
	CollectionID string `json:"collection_id"`
	Name         string `json:"name"`
	Content      string `json:"content"`
}

// Origin records how a document entered the edit pipeline. It is kept for
// observability only; downstream handling is identical for all origins.
type Origin string

const (
	OriginExplicit  Origin = "explicit"
	OriginRetrieved Origin = "retrieved"
	OriginFallback  Origin = "fallback"
)

// CandidateDocument is a document selected by file discovery as a candidate
// for editing.
type CandidateDocument struct {
	Document
	Origin Origin `json:"origin"`
}
