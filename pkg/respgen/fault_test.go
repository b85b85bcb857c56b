package respgen

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmockd/mockd/pkg/mapping"
)

func TestApplyFault_EmptyResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	fault := &mapping.Fault{Kind: mapping.FaultEmptyResponse}
	if err := ApplyFault(rec, fault, http.StatusOK, []byte("ignored")); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("empty_response fault should write no body, got %q", rec.Body.String())
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status code = %d, want 200", rec.Code)
	}
}

func TestApplyFault_AbortAfterBytes_FallsBackWithoutHijack(t *testing.T) {
	rec := httptest.NewRecorder()
	fault := &mapping.Fault{Kind: mapping.FaultAbortAfterBytes, AfterBytes: 3}
	body := []byte("hello world")
	if err := ApplyFault(rec, fault, http.StatusOK, body); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}
	if got := rec.Body.String(); got != "hel" {
		t.Errorf("truncated body = %q, want %q", got, "hel")
	}
}

func TestApplyFault_AbortAfterBytes_LongerThanBody(t *testing.T) {
	rec := httptest.NewRecorder()
	fault := &mapping.Fault{Kind: mapping.FaultAbortAfterBytes, AfterBytes: 1000}
	body := []byte("short")
	if err := ApplyFault(rec, fault, http.StatusOK, body); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}
	if got := rec.Body.String(); got != "short" {
		t.Errorf("body = %q, want the full body when AfterBytes exceeds its length", got)
	}
}

func TestApplyFault_MalformedResponse_FallsBackWithoutHijack(t *testing.T) {
	rec := httptest.NewRecorder()
	fault := &mapping.Fault{Kind: mapping.FaultMalformedResponse}
	if err := ApplyFault(rec, fault, http.StatusOK, []byte("body")); err != nil {
		t.Fatalf("ApplyFault: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("fallback status = %d, want 200", rec.Code)
	}
}
