package matcher

import "github.com/getmockd/mockd/pkg/mapping"

// RequestPattern is a value-constructing fluent builder for a mapping's
// match tree: every With*/Using* call returns a new RequestPattern
// carrying the accumulated children, so intermediate values are safe to
// share and reuse (spec.md 9, "re-architect as value-constructing
// builders: each call returns a new builder carrying accumulated
// configuration").
type RequestPattern struct {
	children []mapping.Matcher
	anyOf    bool
}

// NewRequestPattern starts an empty all-of pattern.
func NewRequestPattern() RequestPattern {
	return RequestPattern{}
}

// AnyRequestPattern starts an empty any-of pattern.
func AnyRequestPattern() RequestPattern {
	return RequestPattern{anyOf: true}
}

func (p RequestPattern) with(m mapping.Matcher) RequestPattern {
	next := RequestPattern{anyOf: p.anyOf, children: make([]mapping.Matcher, len(p.children), len(p.children)+1)}
	copy(next.children, p.children)
	next.children = append(next.children, m)
	return next
}

// UsingMethod adds a Method matcher.
func (p RequestPattern) UsingMethod(method string) RequestPattern {
	return p.with(NewMethod(method))
}

// UsingGet is UsingMethod(http.MethodGet) under a name matching the
// source's "UsingGet" style.
func (p RequestPattern) UsingGet() RequestPattern { return p.UsingMethod("GET") }

// UsingPost is UsingMethod("POST").
func (p RequestPattern) UsingPost() RequestPattern { return p.UsingMethod("POST") }

// UsingPut is UsingMethod("PUT").
func (p RequestPattern) UsingPut() RequestPattern { return p.UsingMethod("PUT") }

// UsingDelete is UsingMethod("DELETE").
func (p RequestPattern) UsingDelete() RequestPattern { return p.UsingMethod("DELETE") }

// WithPath adds an exact-match Path matcher.
func (p RequestPattern) WithPath(path string) RequestPattern {
	return p.with(NewExact(PathField(), path, CaseSensitive, AcceptOnMatch))
}

// WithPathPattern adds a glob Path matcher.
func (p RequestPattern) WithPathPattern(pattern string) RequestPattern {
	w, err := NewWildcard(PathField(), pattern, CaseSensitive, AcceptOnMatch)
	if err != nil {
		return p.with(&FieldMatcher{Field: PathField(), Op: OpEquals, Expected: pattern})
	}
	return p.with(w)
}

// WithHeader adds an Equals Header matcher.
func (p RequestPattern) WithHeader(name, value string) RequestPattern {
	return p.with(NewHeader(name, OpEquals, CaseInsensitive, AcceptOnMatch, value))
}

// WithCookie adds an Equals Cookie matcher.
func (p RequestPattern) WithCookie(name, value string) RequestPattern {
	return p.with(NewCookie(name, OpEquals, CaseSensitive, AcceptOnMatch, value))
}

// WithQueryParam adds an Equals Query matcher.
func (p RequestPattern) WithQueryParam(name, value string) RequestPattern {
	return p.with(NewExact(QueryField(name), value, CaseSensitive, AcceptOnMatch))
}

// WithClientIP adds a ClientIp matcher.
func (p RequestPattern) WithClientIP(value string) RequestPattern {
	return p.with(NewClientIp(OpEquals, value))
}

// WithBodyContains adds a Contains matcher over the decoded body text.
func (p RequestPattern) WithBodyContains(substring string) RequestPattern {
	return p.with(NewExact(BodyTextField(), substring, CaseSensitive, AcceptOnMatch).withOp(OpContains))
}

// withOp overrides the operator of a FieldMatcher in place, used by
// builder helpers that start from NewExact's default Equals operator.
func (f *FieldMatcher) withOp(op Operator) *FieldMatcher {
	f.Op = op
	return f
}

// With appends an arbitrary pre-built matcher, the escape hatch for
// variants the builder has no dedicated method for (Regex, JsonPath,
// XPath, LinqExpression, Custom).
func (p RequestPattern) With(m mapping.Matcher) RequestPattern {
	return p.with(m)
}

// Build produces the immutable Matcher tree: an AllOf or AnyOf root over
// the accumulated children.
func (p RequestPattern) Build() mapping.Matcher {
	if p.anyOf {
		return &AnyOf{Children: p.children}
	}
	return &AllOf{Children: p.children}
}
