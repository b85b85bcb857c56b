package respgen

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/scenario"
	"github.com/getmockd/mockd/pkg/template"
)

func newGenTestRequest(method, target string) *mapping.RequestMessage {
	r := httptest.NewRequest(method, target, nil)
	return mapping.NewRequestMessage(r, nil, "203.0.113.1")
}

func TestGenerator_Generate_StaticTemplatedBody(t *testing.T) {
	g := &Generator{Template: template.New(), Scenarios: scenario.NewTable()}
	m := &mapping.Mapping{
		Response: &mapping.ResponseTemplate{
			StatusCode: 201,
			Headers:    []mapping.KV{{Key: "X-Method", Value: "{{request.method}}"}},
			BodyText:   "hello {{request.path}}",
		},
	}
	req := newGenTestRequest("POST", "http://example.com/orders")
	resp, err := g.Generate(context.Background(), m, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
	if resp.BodyText != "hello /orders" {
		t.Errorf("BodyText = %q, want %q", resp.BodyText, "hello /orders")
	}
	found := false
	for _, kv := range resp.Headers {
		if kv.Key == "X-Method" && kv.Value == "POST" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected templated X-Method header, got %+v", resp.Headers)
	}
}

func TestGenerator_Generate_Fault(t *testing.T) {
	g := &Generator{Template: template.New(), Scenarios: scenario.NewTable()}
	m := &mapping.Mapping{
		Response: &mapping.ResponseTemplate{
			StatusCode: 200,
			Fault:      &mapping.Fault{Kind: mapping.FaultEmptyResponse},
		},
	}
	resp, err := g.Generate(context.Background(), m, newGenTestRequest("GET", "http://example.com/"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Fault == nil || resp.Fault.Kind != mapping.FaultEmptyResponse {
		t.Errorf("expected fault to pass through untouched, got %+v", resp.Fault)
	}
}

func TestGenerator_Generate_BodyFileReadFromFilesRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "order.json"), []byte(`{"id":1}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	g := &Generator{Template: template.New(), Scenarios: scenario.NewTable(), FilesRoot: dir}
	m := &mapping.Mapping{Response: &mapping.ResponseTemplate{StatusCode: 200, BodyFile: "order.json"}}

	resp, err := g.Generate(context.Background(), m, newGenTestRequest("GET", "http://example.com/orders/1"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.BodyKind != mapping.BodyBytes || string(resp.BodyBytes) != `{"id":1}` {
		t.Errorf("expected file contents as BodyBytes, got kind=%v body=%q", resp.BodyKind, resp.BodyBytes)
	}
}

func TestGenerator_Generate_BodyFileEscapeRejected(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{Template: template.New(), Scenarios: scenario.NewTable(), FilesRoot: dir}
	m := &mapping.Mapping{Response: &mapping.ResponseTemplate{StatusCode: 200, BodyFile: "../../etc/passwd"}}

	resp, err := g.Generate(context.Background(), m, newGenTestRequest("GET", "http://example.com/"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.BodyKind == mapping.BodyBytes {
		t.Error("expected a path-traversal body file reference to be rejected, not read")
	}
}
