package service

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
)

// MinimizeChange reduces a before/after pair to its smallest distinguishing
// span by trimming the common prefix, then the common suffix, then residual
// whitespace. Trimming walks runes so a multi-byte character is never split.
//
// Minimization is abandoned (the untrimmed pair is returned with
// minimized=false) in two cases: the trimmed anchor became empty — a pure
// insertion cannot be located uniquely — or the trimmed replacement still
// contains the trimmed anchor, which would make applying it ambiguous with
// the anchor itself.
func MinimizeChange(oldContent, newContent string) (string, string, bool) {
	oldRunes := []rune(oldContent)
	newRunes := []rune(newContent)

	prefix := 0
	for prefix < len(oldRunes) && prefix < len(newRunes) && oldRunes[prefix] == newRunes[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldRunes)-prefix && suffix < len(newRunes)-prefix &&
		oldRunes[len(oldRunes)-1-suffix] == newRunes[len(newRunes)-1-suffix] {
		suffix++
	}

	trimmedOld := strings.TrimSpace(string(oldRunes[prefix : len(oldRunes)-suffix]))
	trimmedNew := strings.TrimSpace(string(newRunes[prefix : len(newRunes)-suffix]))

	if trimmedOld == "" {
		return oldContent, newContent, false
	}
	if trimmedOld != trimmedNew && strings.Contains(trimmedNew, trimmedOld) {
		return oldContent, newContent, false
	}
	return trimmedOld, trimmedNew, true
}

// countOccurrences counts the non-overlapping occurrences of substr in s by
// forward scanning.
func countOccurrences(s, substr string) int {
	if substr == "" {
		return 0
	}
	count := 0
	for {
		i := strings.Index(s, substr)
		if i < 0 {
			return count
		}
		count++
		s = s[i+len(substr):]
	}
}

// classifyReplacement maps a minimized anchor to a coarse size class. UI
// hint only, never used in matching logic.
func classifyReplacement(anchor string) domain.ReplacementType {
	switch n := utf8.RuneCountInString(anchor); {
	case n <= 15:
		return domain.ReplacementWord
	case n <= 50:
		return domain.ReplacementPhrase
	case n <= 150:
		return domain.ReplacementSentence
	default:
		return domain.ReplacementBlock
	}
}

// ResolveChanges turns one document's raw changes into resolved suggestions.
// A counter per unique anchor text binds each change to a distinct
// occurrence in document order: for N identical anchors, at most N changes
// are accepted and each gets a deterministic occurrence index. Changes
// beyond the occurrence count are ambiguous and discarded — they must not
// be applied blindly.
func ResolveChanges(doc domain.Document, changes []domain.RawChange) []domain.Suggestion {
	counters := make(map[string]int)
	var suggestions []domain.Suggestion

	for _, ch := range changes {
		occurrences := countOccurrences(doc.Content, ch.OldContent)
		if occurrences == 0 {
			continue
		}
		n := counters[ch.OldContent]
		if n >= occurrences {
			slog.Debug("discarding ambiguous change",
				"document", doc.ID,
				"occurrences", occurrences,
			)
			continue
		}
		counters[ch.OldContent] = n + 1

		minOld, minNew, minimized := MinimizeChange(ch.OldContent, ch.NewContent)
		suggestions = append(suggestions, domain.Suggestion{
			ID:              uuid.NewString(),
			DocumentID:      doc.ID,
			DocumentName:    doc.Name,
			OldContentFull:  ch.OldContent,
			NewContentFull:  ch.NewContent,
			OldContent:      minOld,
			NewContent:      minNew,
			OccurrenceIndex: n,
			Minimized:       minimized,
			ReplacementType: classifyReplacement(minOld),
		})
	}
	return suggestions
}
