package matcher

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockd/pkg/mapping"
)

// Wildcard matches a field value against a glob pattern anchored to the
// whole value: `*` matches any run, `?` one char (spec.md 4.1).
type Wildcard struct {
	Field    FieldSelector
	Pattern  string
	Case     Case
	Behavior MatchBehavior
}

func (w *Wildcard) Score(req *mapping.RequestMessage) float64 {
	actual, present := w.Field(req)
	if !present {
		return applyBehavior(w.Behavior, 0)
	}
	pattern, value := w.Pattern, actual
	if w.Case == CaseInsensitive {
		pattern = strings.ToLower(pattern)
		value = strings.ToLower(value)
	}
	// doublestar's `*` and `?` never match '/'; mapping '/' to NUL on both
	// sides lets them match it like any other character.
	pattern = strings.ReplaceAll(pattern, "/", "\x00")
	value = strings.ReplaceAll(value, "/", "\x00")
	ok, err := doublestar.Match(pattern, value)
	if err != nil || !ok {
		return applyBehavior(w.Behavior, 0)
	}
	return applyBehavior(w.Behavior, 1)
}

// NewWildcard builds a Wildcard matcher over field, compiled eagerly:
// doublestar.Match validates the pattern on first use, so a malformed
// pattern is surfaced here rather than deep in a request path.
func NewWildcard(field FieldSelector, pattern string, caseMode Case, behavior MatchBehavior) (*Wildcard, error) {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return nil, err
	}
	return &Wildcard{Field: field, Pattern: pattern, Case: caseMode, Behavior: behavior}, nil
}
