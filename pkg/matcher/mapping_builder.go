package matcher

import (
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
)

// MappingBuilder assembles a RequestPattern and a ResponseTemplate into an
// immutable mapping.Mapping, the same value-constructing style as
// RequestPattern and mapping.ResponseBuilder (spec.md 9). It lives here,
// not in pkg/mapping, because it needs to construct a RequestPattern.
type MappingBuilder struct {
	title    string
	priority int
	pattern  RequestPattern
	response *mapping.ResponseTemplate
	scenario *mapping.ScenarioRef
	timing   mapping.Timing
	webhooks []mapping.Webhook
	fireOnly bool
}

// NewMapping starts a builder over a request pattern.
func NewMapping(pattern RequestPattern) MappingBuilder {
	return MappingBuilder{pattern: pattern, priority: 0}
}

func (b MappingBuilder) clone() MappingBuilder {
	next := b
	next.webhooks = append([]mapping.Webhook(nil), b.webhooks...)
	return next
}

// WithTitle sets a human-readable title.
func (b MappingBuilder) WithTitle(title string) MappingBuilder {
	next := b.clone()
	next.title = title
	return next
}

// WithPriority sets the priority (lower wins ties).
func (b MappingBuilder) WithPriority(priority int) MappingBuilder {
	next := b.clone()
	next.priority = priority
	return next
}

// WillReturn attaches the response template.
func (b MappingBuilder) WillReturn(response *mapping.ResponseTemplate) MappingBuilder {
	next := b.clone()
	next.response = response
	return next
}

// InScenario gates the mapping on a named scenario's state and optionally
// advances it when chosen.
func (b MappingBuilder) InScenario(name, requiredState, newState string) MappingBuilder {
	next := b.clone()
	next.scenario = &mapping.ScenarioRef{Name: name, RequiredState: requiredState, NewState: newState}
	return next
}

// WithFixedDelay sets a non-negative fixed delay applied before the
// response is written.
func (b MappingBuilder) WithFixedDelay(d time.Duration) MappingBuilder {
	next := b.clone()
	next.timing.FixedDelay = d
	return next
}

// WithRandomDelay sets a uniform, inclusive random delay range.
func (b MappingBuilder) WithRandomDelay(min, max time.Duration) MappingBuilder {
	next := b.clone()
	next.timing.RandomDelay = &mapping.DelayRange{Min: min, Max: max}
	return next
}

// WithWebhook appends a fire-and-forget (or awaited) outbound call.
func (b MappingBuilder) WithWebhook(w mapping.Webhook, fireAndForget bool) MappingBuilder {
	next := b.clone()
	next.webhooks = append(next.webhooks, w)
	next.fireOnly = next.fireOnly || fireAndForget
	return next
}

// Build produces the immutable Mapping. ID, InsertionIndex, and CreatedAt
// are left zero-valued; the store assigns them on Add.
func (b MappingBuilder) Build() *mapping.Mapping {
	return &mapping.Mapping{
		Title:                    b.title,
		Priority:                 b.priority,
		Tree:                     b.pattern.Build(),
		Response:                 b.response,
		Scenario:                 b.scenario,
		Timing:                   b.timing,
		WebhookList:              append([]mapping.Webhook(nil), b.webhooks...),
		UseWebhooksFireAndForget: b.fireOnly,
	}
}
