package template

import (
	"math/rand/v2"
	"net/http/httptest"
	"testing"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/scenario"
)

func newTestContext(t *testing.T, method, target, body string) *Context {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Content-Type", "application/json")
	req := mapping.NewRequestMessage(r, []byte(body), "203.0.113.1")
	ctx := NewContext(req, scenario.NewTable())
	ctx.Rand = rand.New(rand.NewPCG(1, 1))
	return ctx
}

func TestEngine_Process_RequestFields(t *testing.T) {
	ctx := newTestContext(t, "POST", "http://example.com/orders?id=42", `{"user":{"name":"ada"}}`)
	eng := New()

	tests := []struct {
		tmpl string
		want string
	}{
		{"{{request.method}}", "POST"},
		{"{{request.path}}", "/orders"},
		{"{{request.query.id}}", "42"},
		{"{{request.bodyAsJson.user.name}}", "ada"},
		{"{{request.bodyAsJson.user.missing}}", ""},
		{"no placeholders here", "no placeholders here"},
		{"prefix-{{request.method}}-suffix", "prefix-POST-suffix"},
	}
	for _, tt := range tests {
		if got := eng.Process(tt.tmpl, ctx); got != tt.want {
			t.Errorf("Process(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestEngine_Process_Scenario(t *testing.T) {
	ctx := newTestContext(t, "GET", "http://example.com/", "")
	ctx.Scenarios.Transition("checkout", scenario.Started, "Paid")
	eng := New()
	if got := eng.Process("{{scenario.checkout}}", ctx); got != "Paid" {
		t.Errorf("Process() = %q, want Paid", got)
	}
}

func TestEngine_Process_Functions(t *testing.T) {
	ctx := newTestContext(t, "GET", "http://example.com/", "")
	eng := New()

	if got := eng.Process("{{upper request.method}}", ctx); got != "GET" {
		t.Errorf("upper: got %q", got)
	}
	if got := eng.Process("{{lower request.method}}", ctx); got != "get" {
		t.Errorf("lower: got %q", got)
	}
	if got := eng.Process("{{default request.query.missing 'fallback'}}", ctx); got != "fallback" {
		t.Errorf("default: got %q, want fallback", got)
	}
}

func TestEngine_Process_RandomIntWithinRange(t *testing.T) {
	ctx := newTestContext(t, "GET", "http://example.com/", "")
	eng := New()
	for i := 0; i < 20; i++ {
		got := eng.Process("{{random.int 10 20}}", ctx)
		if got == "" {
			t.Fatal("random.int should produce a value")
		}
	}
}

func TestEngine_Process_UnknownPlaceholderIsEmpty(t *testing.T) {
	ctx := newTestContext(t, "GET", "http://example.com/", "")
	eng := New()
	if got := eng.Process("{{nonsense.path}}", ctx); got != "" {
		t.Errorf("unknown placeholder should resolve to empty string, got %q", got)
	}
}

func TestEngine_ProcessValue_RecursesThroughJSON(t *testing.T) {
	ctx := newTestContext(t, "GET", "http://example.com/", "")
	eng := New()
	input := map[string]any{
		"method": "{{request.method}}",
		"nested": []any{"{{request.path}}", 42},
	}
	out := eng.ProcessValue(input, ctx).(map[string]any)
	if out["method"] != "GET" {
		t.Errorf("nested string substitution failed: %+v", out)
	}
	nested := out["nested"].([]any)
	if nested[0] != "/" {
		t.Errorf("array element substitution failed: %+v", nested)
	}
	if nested[1] != 42 {
		t.Errorf("non-string leaves should pass through unchanged: %+v", nested)
	}
}
