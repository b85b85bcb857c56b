package matcher

import "github.com/getmockd/mockd/pkg/mapping"

// AllOf scores a request as the product of its children's scores — an
// explicit zero short-circuits evaluation of the remainder (spec.md 4.1).
// A mapping's root matcher is typically an AllOf of per-field matchers.
type AllOf struct {
	Children []mapping.Matcher
}

func (a *AllOf) Score(req *mapping.RequestMessage) float64 {
	total := 1.0
	for _, child := range a.Children {
		s := child.Score(req)
		if s == 0 {
			return 0
		}
		total *= s
	}
	return total
}

// AnyOf scores a request as the maximum of its children's scores.
type AnyOf struct {
	Children []mapping.Matcher
}

func (a *AnyOf) Score(req *mapping.RequestMessage) float64 {
	best := 0.0
	for _, child := range a.Children {
		if s := child.Score(req); s > best {
			best = s
		}
	}
	return best
}
