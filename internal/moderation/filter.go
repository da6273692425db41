// Package moderation validates comment text against a configured list of
// forbidden words.
//
// The list and the warning message come from configuration (see
// internal/config) — the filter itself has no opinion about which words are
// forbidden. Whoever constructs it decides; the filter just matches.
package moderation

import (
	"strings"

	"github.com/nkazarin/noteboard/internal/apperror"
)

// Filter rejects text containing any configured forbidden word.
//
// Matching is a case-insensitive substring scan: "Редиска!" and
// "ты редиска и точка" both trip a filter configured with "редиска".
// For a handful of fixed words a linear scan is the whole algorithm —
// the list is read-only after construction, so Filter is safe for
// concurrent use.
type Filter struct {
	words   []string // lowercased at construction
	warning string   // fixed message attached to the text field
}

// New builds a Filter from the configured word list and warning message.
// Words are matched case-insensitively; empty entries are dropped.
func New(words []string, warning string) *Filter {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Filter{words: lowered, warning: warning}
}

// Check returns nil if the text is clean, or a field-level validation error
// on "text" carrying the fixed warning message if any forbidden word appears.
func (f *Filter) Check(text string) error {
	lowered := strings.ToLower(text)
	for _, w := range f.words {
		if strings.Contains(lowered, w) {
			return apperror.ValidationFailed("text", f.warning)
		}
	}
	return nil
}

// Warning exposes the configured warning message (used by tests and templates).
func (f *Filter) Warning() string { return f.warning }
