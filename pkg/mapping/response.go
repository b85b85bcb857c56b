package mapping

import (
	"net/http"
	"time"
)

// BodyKind discriminates which view of ResponseMessage.Body is populated.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyBytes
	BodyText
	BodyJSON
	BodyFile
	BodyProxied
)

// FaultKind names a deliberate malformed-response mode. Faults bypass the
// normal header emission rules (spec.md 4.10).
type FaultKind string

const (
	FaultMalformedResponse FaultKind = "malformed_response"
	FaultEmptyResponse     FaultKind = "empty_response"
	FaultAbortAfterBytes   FaultKind = "abort_after_bytes"
)

// Fault describes a deliberate connection-level failure to inject instead
// of a normal response body.
type Fault struct {
	Kind       FaultKind
	AfterBytes int // only meaningful for FaultAbortAfterBytes
}

// ResponseMessage is the concrete, materialized response produced by the
// response generator for one request: status, headers, exactly one body
// variant, the delay that was applied, and an optional fault directive.
type ResponseMessage struct {
	StatusCode int
	Headers    []KV

	BodyKind  BodyKind
	BodyBytes []byte
	BodyText  string
	BodyJSON  any
	BodyFile  string

	Delay time.Duration
	Fault *Fault

	// ProxyMetadata is set only when this response was produced by the
	// proxy path, recording the upstream target for the request log.
	ProxyMetadata *ProxyMetadata
}

// ProxyMetadata records the upstream call a response was generated from.
type ProxyMetadata struct {
	UpstreamURL    string
	UpstreamStatus int
	Duration       time.Duration
	Error          string
}

// NewResponseMessage returns a ResponseMessage defaulted to status 200 with
// an empty body, matching spec.md's "status code (integer, default 200)".
func NewResponseMessage() *ResponseMessage {
	return &ResponseMessage{StatusCode: http.StatusOK}
}

// reservedResponseHeaders are transport-level headers the engine always
// computes itself; any mapping-supplied value for these is dropped before
// the response is written to the wire (spec.md 4.2, "Excluded-from-headers
// rule").
var reservedResponseHeaders = map[string]bool{
	"Transfer-Encoding": true,
	"Content-Length":    true,
	"Keep-Alive":        true,
	"Connection":        true,
	"Upgrade":           true,
	"Proxy-Connection":  true,
}

// IsReservedResponseHeader reports whether name is a transport header the
// adapter computes itself and therefore strips from any mapping response.
func IsReservedResponseHeader(name string) bool {
	return reservedResponseHeaders[http.CanonicalHeaderKey(name)]
}

// FilterReservedHeaders returns headers with every reserved transport
// header removed, preserving the order of the remaining entries.
func FilterReservedHeaders(headers []KV) []KV {
	filtered := make([]KV, 0, len(headers))
	for _, kv := range headers {
		if IsReservedResponseHeader(kv.Key) {
			continue
		}
		filtered = append(filtered, kv)
	}
	return filtered
}
