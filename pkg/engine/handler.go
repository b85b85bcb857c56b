package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/requestlog"
	"github.com/getmockd/mockd/pkg/respgen"
)

// MaxRequestBodySize bounds the body read for matching, preventing
// denial-of-service via oversized payloads (spec.md 6).
const MaxRequestBodySize = 10 << 20 // 10MB

// Handler is the http.Handler that serves mocked responses out of a
// ServerContext: decode, match, generate, log.
type Handler struct {
	ctx *ServerContext
}

// NewHandler returns a Handler over ctx.
func NewHandler(ctx *ServerContext) *Handler {
	return &Handler{ctx: ctx}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx := h.ctx

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	body, bodyErr := io.ReadAll(r.Body)
	if bodyErr != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(bodyErr, &maxBytesErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds the maximum allowed size")
			return
		}
	}

	body, decErr := decompressBody(r.Header.Get("Content-Encoding"), body)
	if decErr != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_encoding", "failed to decompress request body")
		return
	}

	if !mapping.HasPresentBody(r.Method) {
		body = nil
	}

	req := mapping.NewRequestMessage(r, body, clientIP(r))

	entry := &requestlog.Entry{Request: req, Timing: requestlog.Timing{Started: started}}
	settings := ctx.Settings()

	result := Match(ctx.Store.Snapshot(), req, ctx.Scenarios, settings.PerfectThreshold, settings.AllowPartialMatches)
	entry.PartialMatchCandidates = result.PartialCandidates
	entry.Timing.Matched = time.Now()

	if result.Winner == nil {
		if settings.ProxyAllUpstream != "" {
			h.serveProxyAll(w, r, req, entry, settings)
			return
		}
		h.writeFallback(w, entry, settings)
		return
	}

	entry.MatchedMappingID = result.Winner.ID
	h.serveMapping(w, r, result.Winner, req, entry, settings)
}

// serveMapping generates, delays, and writes the response for a winning
// mapping, applying the scenario transition after generation has begun
// but before the entry is committed to the log (spec.md 4.5).
func (h *Handler) serveMapping(w http.ResponseWriter, r *http.Request, m *mapping.Mapping, req *mapping.RequestMessage, entry *requestlog.Entry, settings Settings) {
	ctx := h.ctx
	reqCtx := r.Context()

	resp, err := ctx.Generator.Generate(reqCtx, m, req)
	if err != nil {
		ctx.Log.Error("response generation failed", "mapping_id", m.ID, "error", err)
		writeJSONError(w, http.StatusBadGateway, "generation_failed", "failed to generate response")
		h.commit(entry, resp, true, settings)
		return
	}

	if m.Scenario != nil && m.Scenario.NewState != "" {
		ctx.Scenarios.Transition(m.Scenario.Name, m.Scenario.RequiredState, m.Scenario.NewState)
	}

	if len(m.WebhookList) > 0 {
		_ = respgen.DispatchWebhooks(context.Background(), m.WebhookList, req, ctx.Template, m.UseWebhooksFireAndForget, ctx.Log)
	}

	delay := respgen.ResolveDelay(m.Timing) + settings.GlobalDelay
	if !respgen.ApplyDelay(reqCtx, delay) {
		h.commit(entry, resp, true, settings)
		return
	}

	if resp.Fault != nil {
		body := renderBody(resp)
		if err := respgen.ApplyFault(w, resp.Fault, resp.StatusCode, body); err != nil {
			ctx.Log.Warn("fault injection failed", "mapping_id", m.ID, "error", err)
		}
		h.commit(entry, resp, false, settings)
		return
	}

	writeResponse(w, resp)
	entry.ProxyMetadata = resp.ProxyMetadata
	h.commit(entry, resp, false, settings)
}

// serveProxyAll answers a request with no matching mapping by forwarding
// it to settings.ProxyAllUpstream (spec.md 6, "--proxy-all <url>"),
// optionally recording the response as a new static mapping.
func (h *Handler) serveProxyAll(w http.ResponseWriter, r *http.Request, req *mapping.RequestMessage, entry *requestlog.Entry, settings Settings) {
	ctx := h.ctx
	resp, err := ctx.Generator.ProxyUpstream(r.Context(), settings.ProxyAllUpstream, req)
	if err != nil {
		ctx.Log.Error("proxy-all failed", "upstream", settings.ProxyAllUpstream, "error", err)
		writeJSONError(w, http.StatusBadGateway, "proxy_failed", "failed to reach upstream")
		h.commit(entry, resp, true, settings)
		return
	}
	if settings.SaveProxyAllHits {
		ctx.Generator.SaveProxyAllHit(req, resp)
	}
	writeResponse(w, resp)
	entry.ProxyMetadata = resp.ProxyMetadata
	h.commit(entry, resp, false, settings)
}

func (h *Handler) writeFallback(w http.ResponseWriter, entry *requestlog.Entry, settings Settings) {
	status := settings.FallbackStatusCode
	if status == 0 {
		status = 404
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Mockd-Near-Misses", strconv.Itoa(len(entry.PartialMatchCandidates)))
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   "no_match",
		"message": "no mapping matched the request",
	})
	h.commit(entry, nil, false, settings)
}

// commit finalizes entry and appends it to the request log, optionally
// holding it back for settings.RequestLogDelay first (spec.md 6).
func (h *Handler) commit(entry *requestlog.Entry, resp *mapping.ResponseMessage, canceled bool, settings Settings) {
	entry.Response = resp
	entry.Canceled = canceled
	entry.Timing.Completed = time.Now()
	if settings.RequestLogDelay <= 0 {
		h.ctx.Requests.Append(entry)
		return
	}
	delay := settings.RequestLogDelay
	go func() {
		time.Sleep(delay)
		h.ctx.Requests.Append(entry)
	}()
}

func renderBody(resp *mapping.ResponseMessage) []byte {
	switch resp.BodyKind {
	case mapping.BodyBytes, mapping.BodyProxied:
		return resp.BodyBytes
	case mapping.BodyText:
		return []byte(resp.BodyText)
	case mapping.BodyJSON:
		b, _ := json.Marshal(resp.BodyJSON)
		return b
	default:
		return nil
	}
}

func writeResponse(w http.ResponseWriter, resp *mapping.ResponseMessage) {
	for _, kv := range resp.Headers {
		w.Header().Add(kv.Key, kv.Value)
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if body := renderBody(resp); len(body) > 0 {
		_, _ = w.Write(body)
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

