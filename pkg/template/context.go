package template

import (
	"math/rand/v2"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/scenario"
)

// Context holds everything a template evaluation can reference: the
// triggering request, the scenario table (for {{scenario.<name>}}), and
// the random source driving {{random}}/{{random.int a b}} — injectable so
// callers can seed it for deterministic output. {{guid}} draws from
// google/uuid and is not affected by Rand.
type Context struct {
	Request   *mapping.RequestMessage
	Scenarios *scenario.Table
	Rand      *rand.Rand
}

// NewContext builds a Context over req with the package default random
// source. Callers that need deterministic output (tests, a seeded
// request) should set Rand directly after construction.
func NewContext(req *mapping.RequestMessage, scenarios *scenario.Table) *Context {
	return &Context{Request: req, Scenarios: scenarios, Rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

func (c *Context) rng() *rand.Rand {
	if c != nil && c.Rand != nil {
		return c.Rand
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
