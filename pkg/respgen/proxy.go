package respgen

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
)

// defaultProxyTimeout bounds an individual upstream call when a
// ProxyTemplate doesn't set one.
const defaultProxyTimeout = 30 * time.Second

// ProxyRoundTripper forwards one mapped request to a single configured
// upstream and relays its response, built the same way the teacher's MITM
// proxy builds its outbound client (bounded idle connections, explicit
// timeout, no automatic redirect-following) but scoped to one upstream per
// call instead of a host-wide capture client.
type ProxyRoundTripper struct {
	client *http.Client
}

// NewProxyRoundTripper returns a ProxyRoundTripper ready for use.
func NewProxyRoundTripper() *ProxyRoundTripper {
	return &ProxyRoundTripper{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Timeout: defaultProxyTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// clientFor returns a client carrying tmpl's client certificate, when one
// is set, or the shared default client otherwise.
func (p *ProxyRoundTripper) clientFor(tmpl *mapping.ProxyTemplate) *http.Client {
	if tmpl.ClientCert == nil {
		return p.client
	}
	return &http.Client{
		CheckRedirect: p.client.CheckRedirect,
		Timeout:       p.client.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{Certificates: []tls.Certificate{*tmpl.ClientCert}},
		},
	}
}

// proxy issues the outbound request and relays status/headers/body, with
// the excluded-headers rule applied to what comes back (spec.md 4.7). It
// honors ctx cancellation: a canceled context aborts the outbound call
// rather than blocking on it (spec.md 5).
func (g *Generator) proxy(ctx context.Context, tmpl *mapping.ProxyTemplate, req *mapping.RequestMessage) (*mapping.ResponseMessage, error) {
	timeout := tmpl.Timeout
	if timeout <= 0 {
		timeout = defaultProxyTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outbound, err := http.NewRequestWithContext(reqCtx, req.Method, tmpl.UpstreamURL, bytes.NewReader(req.RawBody))
	if err != nil {
		return nil, err
	}
	forwardHeaders(outbound, req, tmpl.ForwardedHeaders)

	start := time.Now()
	upstreamResp, err := g.Proxy.clientFor(tmpl).Do(outbound)
	duration := time.Since(start)
	if err != nil {
		return &mapping.ResponseMessage{
			StatusCode: http.StatusBadGateway,
			BodyKind:   mapping.BodyText,
			BodyText:   "upstream request failed",
			ProxyMetadata: &mapping.ProxyMetadata{
				UpstreamURL: tmpl.UpstreamURL,
				Duration:    duration,
				Error:       err.Error(),
			},
		}, nil
	}
	defer upstreamResp.Body.Close()

	body, err := io.ReadAll(upstreamResp.Body)
	if err != nil {
		return nil, err
	}

	headers := make([]mapping.KV, 0, len(upstreamResp.Header))
	for name, values := range upstreamResp.Header {
		for _, v := range values {
			headers = append(headers, mapping.KV{Key: name, Value: v})
		}
	}

	return &mapping.ResponseMessage{
		StatusCode: upstreamResp.StatusCode,
		Headers:    mapping.FilterReservedHeaders(headers),
		BodyKind:   mapping.BodyProxied,
		BodyBytes:  body,
		ProxyMetadata: &mapping.ProxyMetadata{
			UpstreamURL:    tmpl.UpstreamURL,
			UpstreamStatus: upstreamResp.StatusCode,
			Duration:       duration,
		},
	}, nil
}

// forwardHeaders copies the request's headers onto outbound, restricted to
// allowed when it is non-empty (spec.md 4.7: "selected headers ... forwarded").
func forwardHeaders(outbound *http.Request, req *mapping.RequestMessage, allowed []string) {
	allowSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowSet[http.CanonicalHeaderKey(name)] = true
	}
	for _, kv := range req.Headers {
		if len(allowed) > 0 && !allowSet[http.CanonicalHeaderKey(kv.Key)] {
			continue
		}
		outbound.Header.Add(kv.Key, kv.Value)
	}
}
