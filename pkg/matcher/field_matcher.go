package matcher

import "github.com/getmockd/mockd/pkg/mapping"

// FieldMatcher is the shared implementation behind the ContentType,
// Header, Cookie, Method, ClientIp, and Exact matcher variants named in
// spec.md 3: extract a field, compare it with an operator under a case
// mode, then apply the match behavior.
type FieldMatcher struct {
	Field    FieldSelector
	Op       Operator
	Case     Case
	Behavior MatchBehavior
	Expected string
}

func (m *FieldMatcher) Score(req *mapping.RequestMessage) float64 {
	actual, present := m.Field(req)
	if !present {
		if m.Op == OpAbsent {
			return applyBehavior(m.Behavior, 1)
		}
		return applyBehavior(m.Behavior, 0)
	}
	if m.Op == OpAbsent {
		return applyBehavior(m.Behavior, 0)
	}
	return applyBehavior(m.Behavior, compareString(m.Op, m.Case, m.Expected, actual))
}

// NewExact builds an Equals matcher over an arbitrary field, the matcher
// variant named "Exact" in spec.md 3.
func NewExact(field FieldSelector, expected string, caseMode Case, behavior MatchBehavior) *FieldMatcher {
	return &FieldMatcher{Field: field, Op: OpEquals, Case: caseMode, Behavior: behavior, Expected: expected}
}

// NewHeader builds a Header matcher.
func NewHeader(name string, op Operator, caseMode Case, behavior MatchBehavior, expected string) *FieldMatcher {
	return &FieldMatcher{Field: HeaderField(name), Op: op, Case: caseMode, Behavior: behavior, Expected: expected}
}

// NewCookie builds a Cookie matcher.
func NewCookie(name string, op Operator, caseMode Case, behavior MatchBehavior, expected string) *FieldMatcher {
	return &FieldMatcher{Field: CookieField(name), Op: op, Case: caseMode, Behavior: behavior, Expected: expected}
}

// NewMethod builds a Method matcher. Method comparisons are always
// case-insensitive since HTTP verbs are conventionally uppercase.
func NewMethod(method string) *FieldMatcher {
	return &FieldMatcher{Field: MethodField(), Op: OpEquals, Case: CaseInsensitive, Expected: method}
}

// NewClientIp builds a ClientIp matcher.
func NewClientIp(op Operator, expected string) *FieldMatcher {
	return &FieldMatcher{Field: ClientIPField(), Op: op, Case: CaseSensitive, Expected: expected}
}

// NewContentType builds a ContentType matcher.
func NewContentType(op Operator, caseMode Case, expected string) *FieldMatcher {
	return &FieldMatcher{Field: ContentTypeField(), Op: op, Case: caseMode, Expected: expected}
}
