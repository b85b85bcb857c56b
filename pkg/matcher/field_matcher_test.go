package matcher

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmockd/mockd/pkg/mapping"
)

func newRequest(t *testing.T, method, target string, body string, headers map[string]string) *mapping.RequestMessage {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return mapping.NewRequestMessage(r, []byte(body), "203.0.113.9")
}

func TestFieldMatcher_Exact(t *testing.T) {
	tests := []struct {
		name      string
		op        Operator
		caseMode  Case
		expected  string
		actual    string
		wantScore float64
	}{
		{"equals match", OpEquals, CaseSensitive, "/orders", "/orders", 1},
		{"equals mismatch", OpEquals, CaseSensitive, "/orders", "/users", 0},
		{"case insensitive match", OpEquals, CaseInsensitive, "/Orders", "/orders", 1},
		{"case sensitive mismatch", OpEquals, CaseSensitive, "/Orders", "/orders", 0},
		{"contains", OpContains, CaseSensitive, "der", "/orders", 1},
		{"starts with", OpStartsWith, CaseSensitive, "/ord", "/orders", 1},
		{"ends with", OpEndsWith, CaseSensitive, "ers", "/orders", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodGet, "http://example.com"+tt.actual, "", nil)
			m := NewExact(PathField(), tt.expected, tt.caseMode, AcceptOnMatch)
			if m.Op != OpEquals {
				t.Fatalf("NewExact should always build OpEquals, got %v", m.Op)
			}
			m.Op = tt.op
			got := m.Score(req)
			if got != tt.wantScore {
				t.Errorf("Score() = %v, want %v", got, tt.wantScore)
			}
		})
	}
}

func TestFieldMatcher_RejectOnMatch(t *testing.T) {
	req := newRequest(t, http.MethodGet, "http://example.com/orders", "", nil)
	m := NewExact(PathField(), "/orders", CaseSensitive, RejectOnMatch)
	if got := m.Score(req); got != 0 {
		t.Errorf("RejectOnMatch on a matching field should score 0, got %v", got)
	}

	m2 := NewExact(PathField(), "/users", CaseSensitive, RejectOnMatch)
	if got := m2.Score(req); got != 1 {
		t.Errorf("RejectOnMatch on a non-matching field should score 1, got %v", got)
	}
}

func TestFieldMatcher_AbsentOperator(t *testing.T) {
	req := newRequest(t, http.MethodGet, "http://example.com/orders", "", nil)
	m := NewHeader("X-Trace-Id", OpAbsent, CaseSensitive, AcceptOnMatch, "")
	if got := m.Score(req); got != 1 {
		t.Errorf("absent header with OpAbsent should score 1, got %v", got)
	}

	present := NewHeader("X-Trace-Id", OpAbsent, CaseSensitive, AcceptOnMatch, "")
	reqWithHeader := newRequest(t, http.MethodGet, "http://example.com/orders", "", map[string]string{"X-Trace-Id": "abc"})
	if got := present.Score(reqWithHeader); got != 0 {
		t.Errorf("present header with OpAbsent should score 0, got %v", got)
	}
}

func TestFieldMatcher_MissingFieldWithoutAbsentOperator(t *testing.T) {
	req := newRequest(t, http.MethodGet, "http://example.com/orders", "", nil)
	m := NewCookie("session", OpEquals, CaseSensitive, AcceptOnMatch, "abc123")
	if got := m.Score(req); got != 0 {
		t.Errorf("missing field should score 0 under Equals, got %v", got)
	}
}

func TestFieldMatcher_Method(t *testing.T) {
	req := newRequest(t, http.MethodPost, "http://example.com/orders", "", nil)
	m := NewMethod("post")
	if got := m.Score(req); got != 1 {
		t.Errorf("method matching should be case-insensitive, got %v", got)
	}
}

func TestFieldMatcher_ClientIp(t *testing.T) {
	req := newRequest(t, http.MethodGet, "http://example.com/orders", "", nil)
	m := NewClientIp(OpEquals, "203.0.113.9")
	if got := m.Score(req); got != 1 {
		t.Errorf("Score() = %v, want 1", got)
	}
}

func TestAllOf(t *testing.T) {
	req := newRequest(t, http.MethodPost, "http://example.com/orders", "", map[string]string{"Content-Type": "application/json"})

	allMatch := &AllOf{Children: []mapping.Matcher{
		NewMethod("POST"),
		NewExact(PathField(), "/orders", CaseSensitive, AcceptOnMatch),
	}}
	if got := allMatch.Score(req); got != 1 {
		t.Errorf("AllOf with all children matching should score 1, got %v", got)
	}

	oneFails := &AllOf{Children: []mapping.Matcher{
		NewMethod("GET"),
		NewExact(PathField(), "/orders", CaseSensitive, AcceptOnMatch),
	}}
	if got := oneFails.Score(req); got != 0 {
		t.Errorf("AllOf with one child failing should score 0, got %v", got)
	}
}

func TestAnyOf(t *testing.T) {
	req := newRequest(t, http.MethodPost, "http://example.com/orders", "", nil)

	anyMatch := &AnyOf{Children: []mapping.Matcher{
		NewMethod("GET"),
		NewMethod("POST"),
	}}
	if got := anyMatch.Score(req); got != 1 {
		t.Errorf("AnyOf with one matching child should score 1, got %v", got)
	}

	noneMatch := &AnyOf{Children: []mapping.Matcher{
		NewMethod("GET"),
		NewMethod("PUT"),
	}}
	if got := noneMatch.Score(req); got != 0 {
		t.Errorf("AnyOf with no matching children should score 0, got %v", got)
	}
}

func TestAllOf_EmptyChildren(t *testing.T) {
	req := newRequest(t, http.MethodGet, "http://example.com/orders", "", nil)
	empty := &AllOf{}
	if got := empty.Score(req); got != 1 {
		t.Errorf("empty AllOf is vacuously true, got %v", got)
	}
}
