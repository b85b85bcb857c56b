package mapping

import (
	"crypto/tls"
	"time"
)

// Matcher is the capability every matcher-tree node implements: a score in
// [0,1] for how well a request satisfies it. Concrete variants (Exact,
// Wildcard, Regex, JsonPath, ...) and the AllOf/AnyOf composites live in
// package matcher, which depends on this package for RequestMessage; this
// interface is declared here, consumer-side, so that package has no need
// to depend back on anything beyond RequestMessage.
type Matcher interface {
	Score(req *RequestMessage) float64
}

// MatcherFunc adapts a plain function to the Matcher interface, used for
// ad-hoc trees in tests and for the Custom matcher variant's callback form.
type MatcherFunc func(req *RequestMessage) float64

func (f MatcherFunc) Score(req *RequestMessage) float64 { return f(req) }

// DelayRange is a closed, inclusive millisecond interval for a uniformly
// drawn random delay (spec.md 4.10, Open Questions: max is inclusive).
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// Timing holds a mapping's delay configuration, separate from its response
// template per the data model in spec.md 3.
type Timing struct {
	FixedDelay  time.Duration
	RandomDelay *DelayRange
}

// ScenarioRef gates a mapping's eligibility on a named scenario's current
// state and optionally advances that state when the mapping is chosen.
type ScenarioRef struct {
	Name          string
	RequiredState string // empty means "any state"
	NewState      string // empty means "no transition"
}

// ProxyTemplate configures the proxy response path: forward the request to
// an upstream and relay its response, with the excluded-headers rule
// applied to what comes back.
type ProxyTemplate struct {
	UpstreamURL      string
	ForwardedHeaders []string // empty means forward every request header
	ClientCert       *tls.Certificate
	SaveOnFirstHit   bool
	Timeout          time.Duration
}

// Webhook describes one fire-and-forget (or awaited) outbound call issued
// alongside a mapping's response.
type Webhook struct {
	URL      string
	Method   string
	Headers  []KV
	Body     string
	Delay    time.Duration
	MaxTries int
}

// CallbackResponder is the explicit interface the response generator's
// callback path invokes, per the design note in spec.md 9 ("model as an
// explicit interface consumed by the response generator").
type CallbackResponder interface {
	Handle(req *RequestMessage) (*ResponseMessage, error)
}

// ResponseTemplate is the response-generation recipe attached to a
// Mapping. Exactly one of Callback, Proxy, or the static/templated body
// fields drives response generation; Fault, if set, overrides body
// construction entirely.
type ResponseTemplate struct {
	StatusCode int
	Headers    []KV // values may contain {{...}} template placeholders

	BodyText string // may contain template placeholders
	BodyJSON any    // may contain template placeholders in string leaves
	BodyFile string

	Proxy    *ProxyTemplate
	Callback CallbackResponder
	Fault    *Fault
}

// Mapping is one immutable (request pattern -> response template) rule.
// Mutation happens only by replace-in-place at the store (spec.md 4.3).
type Mapping struct {
	ID       string
	Title    string
	Priority int // lower wins

	Tree     Matcher
	Response *ResponseTemplate

	Scenario *ScenarioRef
	Timing   Timing

	WebhookList              []Webhook
	UseWebhooksFireAndForget bool

	// InsertionIndex and CreatedAt are assigned by the store on Add and
	// never change afterward; InsertionIndex breaks priority/score ties in
	// favor of the mapping that was inserted first (spec.md 4.6).
	InsertionIndex int
	CreatedAt      time.Time
}

// Clone returns a shallow copy of the mapping. The store uses this for its
// copy-on-write snapshots; Tree, Response, Scenario and Timing are treated
// as immutable once a Mapping is built, so sharing their pointers across
// clones is safe.
func (m *Mapping) Clone() *Mapping {
	clone := *m
	return &clone
}
