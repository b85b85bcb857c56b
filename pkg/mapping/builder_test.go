package mapping

import "testing"

func TestResponseBuilder_BodyVariantsAreMutuallyExclusive(t *testing.T) {
	tmpl := NewResponse().WithStatus(201).WithHeader("X-A", "1").WithBody("hello").Build()
	if tmpl.StatusCode != 201 || tmpl.BodyText != "hello" {
		t.Fatalf("unexpected template after WithBody: %+v", tmpl)
	}

	tmpl = NewResponse().WithBody("hello").WithJSONBody(map[string]any{"a": 1}).Build()
	if tmpl.BodyText != "" || tmpl.BodyJSON == nil {
		t.Fatalf("WithJSONBody should clear BodyText: %+v", tmpl)
	}

	tmpl = NewResponse().WithJSONBody(map[string]any{"a": 1}).WithBodyFile("order.json").Build()
	if tmpl.BodyJSON != nil || tmpl.BodyFile != "order.json" {
		t.Fatalf("WithBodyFile should clear BodyJSON: %+v", tmpl)
	}
}

func TestResponseBuilder_ImmutableAcrossCalls(t *testing.T) {
	base := NewResponse().WithHeader("X-A", "1")
	withB := base.WithHeader("X-B", "2")

	baseTmpl := base.Build()
	withBTmpl := withB.Build()

	if len(baseTmpl.Headers) != 1 {
		t.Fatalf("base builder should be unaffected by a later With call, got %+v", baseTmpl.Headers)
	}
	if len(withBTmpl.Headers) != 2 {
		t.Fatalf("expected 2 headers on the derived builder, got %+v", withBTmpl.Headers)
	}
}

func TestResponseBuilder_WithFaultAndProxy(t *testing.T) {
	fault := &Fault{Kind: FaultEmptyResponse}
	tmpl := NewResponse().WithFault(fault).Build()
	if tmpl.Fault != fault {
		t.Errorf("Fault not set correctly")
	}

	proxy := &ProxyTemplate{UpstreamURL: "http://upstream"}
	tmpl = NewResponse().WithProxy(proxy).Build()
	if tmpl.Proxy != proxy {
		t.Errorf("Proxy not set correctly")
	}
}
