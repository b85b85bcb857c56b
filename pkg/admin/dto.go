package admin

import (
	"fmt"
	"time"

	"github.com/getmockd/mockd/pkg/engine"
	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/matcher"
)

// MatcherDTO is the external JSON representation of one matcher-tree node
// (spec.md 3/6): Type selects the variant, Target selects which request
// field a leaf matcher reads (ignored by composites and by matchers whose
// field is implicit, like JsonPath/XPath/LinqExpression), Field supplies
// the header/cookie/query name when Target needs one.
type MatcherDTO struct {
	Type     string       `json:"type"`
	Target   string       `json:"target,omitempty"`
	Field    string       `json:"field,omitempty"`
	Operator string       `json:"operator,omitempty"`
	Case     string       `json:"case,omitempty"`
	Behavior string       `json:"matchBehavior,omitempty"`
	Expected any          `json:"expected,omitempty"`
	Leaves   map[string]any `json:"leaves,omitempty"`
	Children []MatcherDTO `json:"children,omitempty"`
}

func caseOf(s string) matcher.Case {
	if s == "insensitive" {
		return matcher.CaseInsensitive
	}
	return matcher.CaseSensitive
}

func behaviorOf(s string) matcher.MatchBehavior {
	if s == "RejectOnMatch" {
		return matcher.RejectOnMatch
	}
	return matcher.AcceptOnMatch
}

func fieldSelectorOf(dto MatcherDTO) (matcher.FieldSelector, error) {
	switch dto.Target {
	case "path", "":
		return matcher.PathField(), nil
	case "method":
		return matcher.MethodField(), nil
	case "clientIp":
		return matcher.ClientIPField(), nil
	case "contentType":
		return matcher.ContentTypeField(), nil
	case "header":
		return matcher.HeaderField(dto.Field), nil
	case "cookie":
		return matcher.CookieField(dto.Field), nil
	case "query":
		return matcher.QueryField(dto.Field), nil
	case "bodyText":
		return matcher.BodyTextField(), nil
	default:
		return nil, fmt.Errorf("admin: unknown matcher target %q", dto.Target)
	}
}

func expectedString(v any) string {
	s, _ := v.(string)
	return s
}

// ToMatcher builds a mapping.Matcher tree from its wire representation.
// Errors surface here (regex/JSONPath/XPath/expression compilation),
// never at match time, per spec.md 4.1.
func ToMatcher(dto MatcherDTO) (mapping.Matcher, error) {
	switch dto.Type {
	case "allOf", "anyOf":
		children := make([]mapping.Matcher, 0, len(dto.Children))
		for _, childDTO := range dto.Children {
			child, err := ToMatcher(childDTO)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if dto.Type == "anyOf" {
			return &matcher.AnyOf{Children: children}, nil
		}
		return &matcher.AllOf{Children: children}, nil

	case "exact":
		field, err := fieldSelectorOf(dto)
		if err != nil {
			return nil, err
		}
		return matcher.NewExact(field, expectedString(dto.Expected), caseOf(dto.Case), behaviorOf(dto.Behavior)), nil

	case "wildcard":
		field, err := fieldSelectorOf(dto)
		if err != nil {
			return nil, err
		}
		return matcher.NewWildcard(field, expectedString(dto.Expected), caseOf(dto.Case), behaviorOf(dto.Behavior))

	case "regex":
		field, err := fieldSelectorOf(dto)
		if err != nil {
			return nil, err
		}
		op := matcher.OpMatches
		if dto.Operator == "NotMatches" {
			op = matcher.OpNotMatches
		}
		return matcher.NewRegex(field, expectedString(dto.Expected), op, behaviorOf(dto.Behavior))

	case "jsonPath":
		return matcher.NewJsonPath(expectedString(dto.Field), dto.Expected, behaviorOf(dto.Behavior))

	case "jsonPartial":
		return matcher.NewJsonPartial(dto.Leaves, behaviorOf(dto.Behavior))

	case "xpath":
		return matcher.NewXPath(dto.Field, expectedString(dto.Expected), behaviorOf(dto.Behavior))

	case "linqExpression":
		return matcher.NewLinqExpression(dto.Field, behaviorOf(dto.Behavior))

	case "contentType":
		return matcher.NewContentType(matcher.Operator(dto.Operator), caseOf(dto.Case), expectedString(dto.Expected)), nil

	case "header":
		return matcher.NewHeader(dto.Field, matcher.Operator(dto.Operator), caseOf(dto.Case), behaviorOf(dto.Behavior), expectedString(dto.Expected)), nil

	case "cookie":
		return matcher.NewCookie(dto.Field, matcher.Operator(dto.Operator), caseOf(dto.Case), behaviorOf(dto.Behavior), expectedString(dto.Expected)), nil

	case "method":
		return matcher.NewMethod(expectedString(dto.Expected)), nil

	case "clientIp":
		return matcher.NewClientIp(matcher.Operator(dto.Operator), expectedString(dto.Expected)), nil

	default:
		return nil, fmt.Errorf("admin: unknown matcher type %q", dto.Type)
	}
}

// ResponseDTO is the external representation of a ResponseTemplate.
type ResponseDTO struct {
	Status   int            `json:"status"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     string         `json:"body,omitempty"`
	JSONBody any            `json:"jsonBody,omitempty"`
	BodyFile string         `json:"bodyFileName,omitempty"`
	Proxy    *ProxyDTO      `json:"proxyBaseUrl,omitempty"`
	Fault    *FaultDTO      `json:"fault,omitempty"`
}

// ProxyDTO is the external representation of a ProxyTemplate.
type ProxyDTO struct {
	UpstreamURL      string   `json:"upstreamUrl"`
	ForwardedHeaders []string `json:"forwardedHeaders,omitempty"`
	SaveOnFirstHit   bool     `json:"saveOnFirstHit,omitempty"`
	TimeoutMs        int      `json:"timeoutMs,omitempty"`
}

// FaultDTO is the external representation of a Fault directive.
type FaultDTO struct {
	Kind       string `json:"kind"`
	AfterBytes int    `json:"afterBytes,omitempty"`
}

func toResponseTemplate(dto ResponseDTO) *mapping.ResponseTemplate {
	tmpl := &mapping.ResponseTemplate{StatusCode: dto.Status, BodyText: dto.Body, BodyJSON: dto.JSONBody, BodyFile: dto.BodyFile}
	if tmpl.StatusCode == 0 {
		tmpl.StatusCode = 200
	}
	for name, value := range dto.Headers {
		tmpl.Headers = append(tmpl.Headers, mapping.KV{Key: name, Value: value})
	}
	if dto.Proxy != nil {
		tmpl.Proxy = &mapping.ProxyTemplate{
			UpstreamURL:      dto.Proxy.UpstreamURL,
			ForwardedHeaders: dto.Proxy.ForwardedHeaders,
			SaveOnFirstHit:   dto.Proxy.SaveOnFirstHit,
			Timeout:          time.Duration(dto.Proxy.TimeoutMs) * time.Millisecond,
		}
	}
	if dto.Fault != nil {
		tmpl.Fault = &mapping.Fault{Kind: mapping.FaultKind(dto.Fault.Kind), AfterBytes: dto.Fault.AfterBytes}
	}
	return tmpl
}

// ScenarioDTO is the external representation of a ScenarioRef.
type ScenarioDTO struct {
	Name          string `json:"name"`
	RequiredState string `json:"requiredScenarioState,omitempty"`
	NewState      string `json:"newScenarioState,omitempty"`
}

// TimingDTO is the external representation of Timing.
type TimingDTO struct {
	FixedDelayMs  int  `json:"fixedDelayMilliseconds,omitempty"`
	RandomDelayMs *struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"randomDelayMilliseconds,omitempty"`
}

// WebhookDTO is the external representation of a Webhook.
type WebhookDTO struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
	DelayMs int               `json:"delayMilliseconds,omitempty"`
}

// MappingDTO is the external, wire representation of a Mapping posted to
// or returned from /__admin/mappings.
type MappingDTO struct {
	ID                       string        `json:"id,omitempty"`
	Title                    string        `json:"title,omitempty"`
	Priority                 int           `json:"priority"`
	Request                  MatcherDTO    `json:"request"`
	Response                 ResponseDTO   `json:"response"`
	Scenario                 *ScenarioDTO  `json:"scenario,omitempty"`
	Timing                   *TimingDTO    `json:"timing,omitempty"`
	Webhooks                 []WebhookDTO  `json:"webhooks,omitempty"`
	UseWebhooksFireAndForget bool          `json:"useWebhooksFireAndForget,omitempty"`
	CreatedAt                *time.Time    `json:"createdAt,omitempty"`
}

// ToMapping converts the wire DTO into an internal Mapping, compiling its
// matcher tree.
func ToMapping(dto MappingDTO) (*mapping.Mapping, error) {
	tree, err := ToMatcher(dto.Request)
	if err != nil {
		return nil, fmt.Errorf("request pattern: %w", err)
	}

	m := &mapping.Mapping{
		ID:       dto.ID,
		Title:    dto.Title,
		Priority: dto.Priority,
		Tree:     tree,
		Response: toResponseTemplate(dto.Response),
	}

	if dto.Scenario != nil {
		m.Scenario = &mapping.ScenarioRef{
			Name:          dto.Scenario.Name,
			RequiredState: dto.Scenario.RequiredState,
			NewState:      dto.Scenario.NewState,
		}
	}

	if dto.Timing != nil {
		m.Timing.FixedDelay = time.Duration(dto.Timing.FixedDelayMs) * time.Millisecond
		if dto.Timing.RandomDelayMs != nil {
			m.Timing.RandomDelay = &mapping.DelayRange{
				Min: time.Duration(dto.Timing.RandomDelayMs.Min) * time.Millisecond,
				Max: time.Duration(dto.Timing.RandomDelayMs.Max) * time.Millisecond,
			}
		}
	}

	for _, wh := range dto.Webhooks {
		webhook := mapping.Webhook{URL: wh.URL, Method: wh.Method, Body: wh.Body, Delay: time.Duration(wh.DelayMs) * time.Millisecond}
		for name, value := range wh.Headers {
			webhook.Headers = append(webhook.Headers, mapping.KV{Key: name, Value: value})
		}
		m.WebhookList = append(m.WebhookList, webhook)
	}
	m.UseWebhooksFireAndForget = dto.UseWebhooksFireAndForget

	return m, nil
}

// FromMapping converts an internal Mapping back to its wire DTO, for
// GET /__admin/mappings responses. The matcher tree is not reconstructed
// in general — round-tripping wire DTOs is how mappings enter the store,
// so this is a lossy, best-effort rendering used only for inspection.
func FromMapping(m *mapping.Mapping) MappingDTO {
	dto := MappingDTO{
		ID:                       m.ID,
		Title:                    m.Title,
		Priority:                 m.Priority,
		UseWebhooksFireAndForget: m.UseWebhooksFireAndForget,
	}
	if !m.CreatedAt.IsZero() {
		dto.CreatedAt = &m.CreatedAt
	}
	if m.Response != nil {
		dto.Response = ResponseDTO{Status: m.Response.StatusCode, Body: m.Response.BodyText, JSONBody: m.Response.BodyJSON, BodyFile: m.Response.BodyFile}
		if len(m.Response.Headers) > 0 {
			dto.Response.Headers = make(map[string]string, len(m.Response.Headers))
			for _, kv := range m.Response.Headers {
				dto.Response.Headers[kv.Key] = kv.Value
			}
		}
	}
	if m.Scenario != nil {
		dto.Scenario = &ScenarioDTO{Name: m.Scenario.Name, RequiredState: m.Scenario.RequiredState, NewState: m.Scenario.NewState}
	}
	return dto
}

// SettingsDTO is the external representation of engine.Settings plus the
// request log's capacity, for GET/PUT /__admin/settings (spec.md 6:
// "update settings (delay, request-log capacity)").
type SettingsDTO struct {
	PerfectThreshold    float64 `json:"perfectThreshold"`
	AllowPartialMatches bool    `json:"allowPartialMatches"`
	GlobalDelayMs       int     `json:"globalDelayMilliseconds"`
	FallbackStatusCode  int     `json:"fallbackStatusCode"`
	RequestLogDelayMs   int     `json:"requestLogDelayMilliseconds"`
	RequestLogCapacity  int     `json:"requestLogCapacity"`
	ProxyAllUpstream    string  `json:"proxyAllUpstream,omitempty"`
	SaveProxyAllHits    bool    `json:"saveProxyAllHits,omitempty"`
}

// FromSettings renders the current settings and log capacity for GET.
func FromSettings(s engine.Settings, logCapacity int) SettingsDTO {
	return SettingsDTO{
		PerfectThreshold:    s.PerfectThreshold,
		AllowPartialMatches: s.AllowPartialMatches,
		GlobalDelayMs:       int(s.GlobalDelay / time.Millisecond),
		FallbackStatusCode:  s.FallbackStatusCode,
		RequestLogDelayMs:   int(s.RequestLogDelay / time.Millisecond),
		RequestLogCapacity:  logCapacity,
		ProxyAllUpstream:    s.ProxyAllUpstream,
		SaveProxyAllHits:    s.SaveProxyAllHits,
	}
}

// ToSettings converts a PUT body into engine.Settings, leaving
// RequestLogCapacity for the caller to apply to the request log
// separately (it lives on requestlog.Store, not engine.Settings).
func ToSettings(dto SettingsDTO) engine.Settings {
	return engine.Settings{
		PerfectThreshold:    dto.PerfectThreshold,
		AllowPartialMatches: dto.AllowPartialMatches,
		GlobalDelay:         time.Duration(dto.GlobalDelayMs) * time.Millisecond,
		FallbackStatusCode:  dto.FallbackStatusCode,
		RequestLogDelay:     time.Duration(dto.RequestLogDelayMs) * time.Millisecond,
		ProxyAllUpstream:    dto.ProxyAllUpstream,
		SaveProxyAllHits:    dto.SaveProxyAllHits,
	}
}
