package matcher

import (
	"regexp"

	"github.com/getmockd/mockd/pkg/mapping"
)

// Regex matches a field value against a compiled regular expression.
// Compilation happens once, in NewRegex; a malformed pattern is a
// construction-time error, never a per-request failure (spec.md 4.1).
type Regex struct {
	Field    FieldSelector
	re       *regexp.Regexp
	Negate   bool // true for the NotMatches operator
	Behavior MatchBehavior
}

func (r *Regex) Score(req *mapping.RequestMessage) float64 {
	actual, present := r.Field(req)
	if !present {
		return applyBehavior(r.Behavior, 0)
	}
	hit := r.re.MatchString(actual)
	if r.Negate {
		hit = !hit
	}
	if hit {
		return applyBehavior(r.Behavior, 1)
	}
	return applyBehavior(r.Behavior, 0)
}

// NewRegex compiles pattern and returns a Regex matcher. op must be
// OpMatches or OpNotMatches.
func NewRegex(field FieldSelector, pattern string, op Operator, behavior MatchBehavior) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Regex{Field: field, re: re, Negate: op == OpNotMatches, Behavior: behavior}, nil
}
