package mapping

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
)

// KV is one entry of an ordered, case-preserving multimap. Query parameters
// keep arrival order. Header names come from net/http's Header map, so the
// relative order of different header names is not preserved; the values of
// one header keep arrival order. Lookups are case-insensitive for headers
// and exact for query parameters.
type KV struct {
	Key   string
	Value string
}

// RequestMessage is the normalized, immutable view of one inbound HTTP
// request. It is built exactly once per request by the HTTP adapter and
// passed as the same pointer through matching, templating, proxying, and
// logging.
type RequestMessage struct {
	Method      string
	AbsoluteURL string
	Path        string
	Headers     []KV
	Cookies     map[string]string
	Query       []KV
	ClientIP    string

	// Body is co-resident in three views. RawBody is always populated
	// (empty for GET/HEAD/TRACE, per the body-presence rule). Text is a
	// best-effort charset-decoded string. JSON is non-nil only when
	// Content-Type indicates a JSON payload that parsed successfully.
	RawBody []byte
	Text    string
	JSON    any

	ReceivedAt time.Time
}

// NewRequestMessage normalizes an *http.Request plus its already-drained
// body into a RequestMessage. The caller is responsible for applying the
// body-presence rule (stripping the body for GET/HEAD/TRACE) before
// calling this, since that rule is about what matchers may see, not about
// what bytes physically arrived.
func NewRequestMessage(r *http.Request, body []byte, clientIP string) *RequestMessage {
	msg := &RequestMessage{
		Method:      strings.ToUpper(r.Method),
		AbsoluteURL: r.URL.String(),
		Path:        r.URL.Path,
		ClientIP:    clientIP,
		RawBody:     body,
		ReceivedAt:  time.Now(),
	}

	for name, values := range r.Header {
		for _, v := range values {
			msg.Headers = append(msg.Headers, KV{Key: name, Value: v})
		}
	}

	msg.Cookies = make(map[string]string)
	for _, c := range r.Cookies() {
		msg.Cookies[c.Name] = c.Value // last-wins: a later cookie overwrites an earlier one of the same name
	}

	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		key, errK := url.QueryUnescape(k)
		value, errV := url.QueryUnescape(v)
		if pair == "" || strings.Contains(pair, ";") || errK != nil || errV != nil {
			continue
		}
		msg.Query = append(msg.Query, KV{Key: key, Value: value})
	}

	msg.Text = decodeBody(r.Header.Get("Content-Type"), body)
	msg.JSON = decodeJSON(r.Header.Get("Content-Type"), body)

	return msg
}

// decodeBody best-effort decodes raw bytes to a string using the charset
// named in the Content-Type parameter, falling back to UTF-8 when the
// charset is absent, unknown, or the body is empty.
func decodeBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return string(body)
	}
	enc, err := htmlindex.Get(params["charset"])
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

// decodeJSON parses body as JSON when Content-Type indicates a JSON media
// type (application/json or any +json suffix). Returns nil, without error,
// when the type doesn't indicate JSON or parsing fails — JSON matchers and
// templates treat a nil JSON view as "no JSON body" rather than an error.
func decodeJSON(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return v
}

// Header returns the first value of the named header, matched
// case-insensitively, as WireMock-style matchers expect.
func (m *RequestMessage) Header(name string) (string, bool) {
	canonical := http.CanonicalHeaderKey(name)
	for _, kv := range m.Headers {
		if http.CanonicalHeaderKey(kv.Key) == canonical {
			return kv.Value, true
		}
	}
	return "", false
}

// HeaderValues returns all values of the named header in arrival order.
func (m *RequestMessage) HeaderValues(name string) []string {
	canonical := http.CanonicalHeaderKey(name)
	var values []string
	for _, kv := range m.Headers {
		if http.CanonicalHeaderKey(kv.Key) == canonical {
			values = append(values, kv.Value)
		}
	}
	return values
}

// QueryValue returns the first value of the named query parameter.
func (m *RequestMessage) QueryValue(name string) (string, bool) {
	for _, kv := range m.Query {
		if kv.Key == name {
			return kv.Value, true
		}
	}
	return "", false
}

// WithBody returns a shallow copy of the message with RawBody/Text/JSON
// replaced, leaving the original unchanged.
func (m *RequestMessage) WithBody(body []byte, contentType string) *RequestMessage {
	clone := *m
	clone.RawBody = body
	clone.Text = decodeBody(contentType, body)
	clone.JSON = decodeJSON(contentType, body)
	return &clone
}

// bodyPresentMethods lists the HTTP methods whose body survives to
// matching unmodified, per the body-presence rule.
var bodyPresentMethods = map[string]bool{
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodOptions: true,
	http.MethodDelete:  true,
	"REPORT":           true,
}

// HasPresentBody reports whether method retains its body for matching
// purposes. GET, HEAD, and TRACE never do; POST/PUT/PATCH/OPTIONS/DELETE/
// REPORT and any unrecognized verb do.
func HasPresentBody(method string) bool {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodTrace:
		return false
	}
	if bodyPresentMethods[method] {
		return true
	}
	// Unknown verb: retain body per spec.
	return true
}
