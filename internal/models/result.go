package models

import (
	"fmt"
	"strings"
)

// ImportResult aggregates per-record outcomes of a single import call. It
// is created fresh per call, returned to the caller and never persisted.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// AddError records a per-record failure message. The full list is kept for
// logging; use DisplayErrors for a bounded rendering.
func (r *ImportResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// DisplayErrors returns at most max error lines, with a trailing summary
// line when more were recorded.
func (r *ImportResult) DisplayErrors(max int) string {
	if len(r.Errors) == 0 {
		return ""
	}
	shown := r.Errors
	if max > 0 && len(shown) > max {
		shown = shown[:max]
	}
	s := strings.Join(shown, "\n")
	if rest := len(r.Errors) - len(shown); rest > 0 {
		s += fmt.Sprintf("\n... and %d more", rest)
	}
	return s
}

// String renders the imported/skipped/error counts. Partial success is
// always reported with explicit counts, never collapsed to pass/fail.
func (r *ImportResult) String() string {
	return fmt.Sprintf("imported %d, skipped %d, errors %d", r.Imported, r.Skipped, len(r.Errors))
}
