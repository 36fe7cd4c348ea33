package domain

// RawChange is one replacement pair proposed by the generation model.
// OldContent must be an exact, case-sensitive substring of the source
// document or the change is discarded.
type RawChange struct {
	OldContent string `json:"oldContent"`
	NewContent string `json:"newContent"`
}

// ReplacementType is a coarse size class for a minimized anchor, used only
// to hint UI affordances.
type ReplacementType string

const (
	ReplacementWord     ReplacementType = "word"
	ReplacementPhrase   ReplacementType = "phrase"
	ReplacementSentence ReplacementType = "sentence"
	ReplacementBlock    ReplacementType = "block"
)

// Suggestion is a resolved, minimally-scoped edit suggestion handed to the
// editor UI. OldContentFull/NewContentFull keep the original pair for
// display and reversal; OldContent/NewContent are the minimized pair used to
// anchor application.
type Suggestion struct {
	ID              string          `json:"id"`
	DocumentID      string          `json:"document_id"`
	DocumentName    string          `json:"document_name"`
	OldContentFull  string          `json:"old_content_full"`
	NewContentFull  string          `json:"new_content_full"`
	OldContent      string          `json:"old_content"`
	NewContent      string          `json:"new_content"`
	OccurrenceIndex int             `json:"occurrence_index"`
	Minimized       bool            `json:"minimized"`
	ReplacementType ReplacementType `json:"replacement_type"`
}

// EditSummary aggregates counts for the editor UI.
type EditSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	SuggestionsMade int `json:"suggestions_made"`
}

// FileToOpen names a document the editor should open because suggestions
// target it.
type FileToOpen struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
}

// EditResult is the edit orchestrator's response payload.
type EditResult struct {
	ResultMessage string       `json:"result_message"`
	EditSummary   EditSummary  `json:"edit_summary"`
	Suggestions   []Suggestion `json:"suggestions"`
	FilesToOpen   []FileToOpen `json:"files_to_open"`
}
