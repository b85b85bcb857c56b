package respgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/matcher"
	"github.com/getmockd/mockd/pkg/scenario"
	"github.com/getmockd/mockd/pkg/template"
	"github.com/getmockd/mockd/pkg/util"
)

// Generator produces responses for winning mappings. It holds the shared,
// stateless collaborators (template engine, scenario table, proxy
// transport) that every Generate call needs; none of it is mutated per
// request.
type Generator struct {
	Template  *template.Engine
	Scenarios *scenario.Table
	Proxy     *ProxyRoundTripper
	SaveOnHit MappingSaver

	// FilesRoot resolves a response template's BodyFile reference, the
	// file-reference body variant named in spec.md 3. Conventionally the
	// "__files" subdirectory alongside a static mappings directory; a
	// BodyFile on a Generator with no FilesRoot set always reads as empty.
	FilesRoot string
}

// MappingSaver is the narrow capability the proxy path's "save mapping on
// first hit" mode needs from the mapping store, kept as a small interface
// so respgen doesn't depend on the concrete store implementation.
type MappingSaver interface {
	Add(m *mapping.Mapping) *mapping.Mapping
}

// Generate builds a ResponseMessage for mapping m answering req. Exactly
// one of the fault, callback, proxy, or static/templated paths runs,
// matching the precedence implied by spec.md 4.7: a fault directive
// always takes over body construction, then a callback or proxy, and
// failing those, the static/templated template.
func (g *Generator) Generate(ctx context.Context, m *mapping.Mapping, req *mapping.RequestMessage) (*mapping.ResponseMessage, error) {
	tmpl := m.Response
	if tmpl == nil {
		return mapping.NewResponseMessage(), nil
	}

	if tmpl.Fault != nil {
		return &mapping.ResponseMessage{StatusCode: tmpl.StatusCode, Fault: tmpl.Fault}, nil
	}

	if tmpl.Callback != nil {
		resp, err := tmpl.Callback.Handle(req)
		if err != nil {
			return nil, fmt.Errorf("respgen: callback: %w", err)
		}
		resp.Headers = mapping.FilterReservedHeaders(resp.Headers)
		return resp, nil
	}

	if tmpl.Proxy != nil {
		resp, err := g.proxy(ctx, tmpl.Proxy, req)
		if err != nil {
			return nil, fmt.Errorf("respgen: proxy: %w", err)
		}
		if tmpl.Proxy.SaveOnFirstHit && g.SaveOnHit != nil {
			g.saveProxyHit(m, req, resp)
		}
		return resp, nil
	}

	return g.static(tmpl, req), nil
}

// static builds the response directly from the template's status, headers,
// and body, substituting {{...}} placeholders along the way (spec.md 4.7
// static/templated paths share this code since the only difference is
// whether the template text contains any placeholders).
func (g *Generator) static(tmpl *mapping.ResponseTemplate, req *mapping.RequestMessage) *mapping.ResponseMessage {
	tctx := template.NewContext(req, g.Scenarios)

	resp := mapping.NewResponseMessage()
	resp.StatusCode = tmpl.StatusCode
	if resp.StatusCode == 0 {
		resp.StatusCode = 200
	}

	headers := make([]mapping.KV, 0, len(tmpl.Headers))
	for _, kv := range tmpl.Headers {
		headers = append(headers, mapping.KV{Key: kv.Key, Value: g.Template.Process(kv.Value, tctx)})
	}
	resp.Headers = mapping.FilterReservedHeaders(headers)

	switch {
	case tmpl.BodyJSON != nil:
		resp.BodyKind = mapping.BodyJSON
		resp.BodyJSON = g.Template.ProcessValue(tmpl.BodyJSON, tctx)
	case tmpl.BodyFile != "":
		resp.BodyKind = mapping.BodyFile
		resp.BodyFile = tmpl.BodyFile
		if data, err := g.readBodyFile(tmpl.BodyFile); err == nil {
			resp.BodyKind = mapping.BodyBytes
			resp.BodyBytes = data
		}
	case tmpl.BodyText != "":
		resp.BodyKind = mapping.BodyText
		resp.BodyText = g.Template.Process(tmpl.BodyText, tctx)
	default:
		resp.BodyKind = mapping.BodyNone
	}

	return resp
}

// readBodyFile resolves name against FilesRoot and reads its contents,
// rejecting any path that would escape the root directory.
func (g *Generator) readBodyFile(name string) ([]byte, error) {
	if g.FilesRoot == "" {
		return nil, fmt.Errorf("respgen: no files root configured for body file %q", name)
	}
	cleaned, ok := util.SafeFilePath(name)
	if !ok {
		return nil, fmt.Errorf("respgen: unsafe body file path %q", name)
	}
	return os.ReadFile(filepath.Join(g.FilesRoot, cleaned))
}

// ProxyUpstream answers req by forwarding it to upstreamBase + req's own
// path and query, for the "--proxy-all" fallback (spec.md 6): every
// request with no matching mapping is answered from a single upstream
// instead of the configured fallback status.
func (g *Generator) ProxyUpstream(ctx context.Context, upstreamBase string, req *mapping.RequestMessage) (*mapping.ResponseMessage, error) {
	tmpl := &mapping.ProxyTemplate{UpstreamURL: strings.TrimRight(upstreamBase, "/") + req.AbsoluteURL}
	return g.proxy(ctx, tmpl, req)
}

// SaveProxyAllHit records a proxy-all response as a new exact-match static
// mapping (spec.md 6, "--save-mapping"), so the next identical request is
// answered without a further upstream round trip.
func (g *Generator) SaveProxyAllHit(req *mapping.RequestMessage, resp *mapping.ResponseMessage) {
	if g.SaveOnHit == nil {
		return
	}
	tree := &matcher.AllOf{Children: []mapping.Matcher{
		matcher.NewMethod(req.Method),
		matcher.NewExact(matcher.PathField(), req.Path, matcher.CaseSensitive, matcher.AcceptOnMatch),
	}}
	saved := &mapping.Mapping{
		Title: "recorded: " + req.Method + " " + req.Path,
		Tree:  tree,
		Response: &mapping.ResponseTemplate{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			BodyText:   resp.BodyText,
			BodyJSON:   resp.BodyJSON,
		},
	}
	g.SaveOnHit.Add(saved)
}

func (g *Generator) saveProxyHit(m *mapping.Mapping, req *mapping.RequestMessage, resp *mapping.ResponseMessage) {
	saved := &mapping.Mapping{
		Title:    "recorded: " + req.Method + " " + req.Path,
		Priority: m.Priority,
		Tree:     m.Tree,
		Response: &mapping.ResponseTemplate{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			BodyText:   resp.BodyText,
			BodyJSON:   resp.BodyJSON,
		},
	}
	g.SaveOnHit.Add(saved)
}
