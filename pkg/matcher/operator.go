package matcher

import "strings"

// Operator is the string comparison mode a field-level matcher applies
// once it has extracted a candidate value from the request.
type Operator string

const (
	OpEquals     Operator = "Equals"
	OpContains   Operator = "Contains"
	OpStartsWith Operator = "StartsWith"
	OpEndsWith   Operator = "EndsWith"
	OpMatches    Operator = "Matches"    // regex, handled by Regex matcher directly
	OpNotMatches Operator = "NotMatches" // regex, handled by Regex matcher directly
	OpAbsent     Operator = "Absent"
)

// Case selects whether a string comparison is case-sensitive.
type Case int

const (
	CaseSensitive Case = iota
	CaseInsensitive
)

// MatchBehavior flips a matcher's score: AcceptOnMatch reports the raw
// score, RejectOnMatch reports 1-score (spec.md 4.1).
type MatchBehavior int

const (
	AcceptOnMatch MatchBehavior = iota
	RejectOnMatch
)

// applyBehavior implements the RejectOnMatch inversion from spec.md 4.1.
func applyBehavior(behavior MatchBehavior, score float64) float64 {
	if behavior == RejectOnMatch {
		return 1 - score
	}
	return score
}

// compareString scores one operator/case comparison between an expected
// and an actual value, both already known to be present. Equals is scored
// as a simple boolean (1 or 0); Contains/StartsWith/EndsWith likewise.
func compareString(op Operator, caseMode Case, expected, actual string) float64 {
	if caseMode == CaseInsensitive {
		expected = strings.ToLower(expected)
		actual = strings.ToLower(actual)
	}
	var hit bool
	switch op {
	case OpEquals, "":
		hit = expected == actual
	case OpContains:
		hit = strings.Contains(actual, expected)
	case OpStartsWith:
		hit = strings.HasPrefix(actual, expected)
	case OpEndsWith:
		hit = strings.HasSuffix(actual, expected)
	default:
		hit = expected == actual
	}
	if hit {
		return 1
	}
	return 0
}
