package matcher

import "github.com/getmockd/mockd/pkg/mapping"

// Custom wraps a caller-supplied scoring function, mirroring the
// callback-as-interface design note in spec.md 9: embedders that need a
// predicate this package doesn't model can supply one directly.
type Custom struct {
	Fn       func(req *mapping.RequestMessage) float64
	Behavior MatchBehavior
}

func (c *Custom) Score(req *mapping.RequestMessage) float64 {
	return applyBehavior(c.Behavior, c.Fn(req))
}

// NewCustom builds a Custom matcher from fn.
func NewCustom(fn func(req *mapping.RequestMessage) float64, behavior MatchBehavior) *Custom {
	return &Custom{Fn: fn, Behavior: behavior}
}
