package mapping

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRequestMessage_HeadersQueryCookies(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/orders?status=open&status=closed", strings.NewReader(`{"id":1}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Trace", "abc")
	r.AddCookie(&http.Cookie{Name: "session", Value: "xyz"})

	msg := NewRequestMessage(r, []byte(`{"id":1}`), "203.0.113.1")

	if msg.Method != "POST" {
		t.Errorf("Method = %q, want POST", msg.Method)
	}
	if msg.Path != "/orders" {
		t.Errorf("Path = %q, want /orders", msg.Path)
	}
	if v, ok := msg.Header("x-trace"); !ok || v != "abc" {
		t.Errorf("Header(x-trace) = %q, %v, want abc, true", v, ok)
	}
	values := msg.HeaderValues("X-Trace")
	if len(values) != 1 || values[0] != "abc" {
		t.Errorf("HeaderValues = %v", values)
	}
	if v, ok := msg.QueryValue("status"); !ok || v != "open" {
		t.Errorf("QueryValue(status) = %q, %v, want open, true (first wins)", v, ok)
	}
	if msg.JSON == nil {
		t.Error("expected JSON view to be populated for application/json body")
	}
}

func TestNewRequestMessage_NonJSONContentTypeLeavesJSONNil(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/", strings.NewReader("plain text"))
	r.Header.Set("Content-Type", "text/plain")
	msg := NewRequestMessage(r, []byte("plain text"), "203.0.113.1")
	if msg.JSON != nil {
		t.Errorf("JSON = %v, want nil for text/plain body", msg.JSON)
	}
	if msg.Text != "plain text" {
		t.Errorf("Text = %q, want %q", msg.Text, "plain text")
	}
}

func TestWithBody_ReplacesViewsWithoutMutatingOriginal(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	original := NewRequestMessage(r, nil, "203.0.113.1")

	withBody := original.WithBody([]byte(`{"a":1}`), "application/json")
	if len(original.RawBody) != 0 {
		t.Error("original RawBody should remain empty")
	}
	if withBody.JSON == nil {
		t.Error("expected the derived message to carry a JSON view")
	}
}

func TestHasPresentBody(t *testing.T) {
	cases := []struct {
		method string
		want   bool
	}{
		{"GET", false},
		{"HEAD", false},
		{"TRACE", false},
		{"POST", true},
		{"PUT", true},
		{"PATCH", true},
		{"DELETE", true},
		{"OPTIONS", true},
		{"REPORT", true},
		{"PROPFIND", true},
		{"get", false},
	}
	for _, c := range cases {
		if got := HasPresentBody(c.method); got != c.want {
			t.Errorf("HasPresentBody(%q) = %v, want %v", c.method, got, c.want)
		}
	}
}
