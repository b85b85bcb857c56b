package mapping

import (
	"net/http"
)

// ResponseBuilder is a value-constructing fluent builder for a
// ResponseTemplate, mirroring the source's "Response.Create()...WithBody()"
// style (spec.md 9): every With* call returns a new ResponseBuilder.
type ResponseBuilder struct {
	tmpl ResponseTemplate
}

// NewResponse starts a builder defaulted to status 200.
func NewResponse() ResponseBuilder {
	return ResponseBuilder{tmpl: ResponseTemplate{StatusCode: http.StatusOK}}
}

func (b ResponseBuilder) clone() ResponseBuilder {
	next := b
	next.tmpl.Headers = append([]KV(nil), b.tmpl.Headers...)
	return next
}

// WithStatus sets the status code.
func (b ResponseBuilder) WithStatus(code int) ResponseBuilder {
	next := b.clone()
	next.tmpl.StatusCode = code
	return next
}

// WithHeader appends a response header.
func (b ResponseBuilder) WithHeader(name, value string) ResponseBuilder {
	next := b.clone()
	next.tmpl.Headers = append(next.tmpl.Headers, KV{Key: name, Value: value})
	return next
}

// WithBody sets a literal/templated text body.
func (b ResponseBuilder) WithBody(body string) ResponseBuilder {
	next := b.clone()
	next.tmpl.BodyText = body
	next.tmpl.BodyJSON = nil
	next.tmpl.BodyFile = ""
	return next
}

// WithJSONBody sets a JSON body value, whose string leaves may contain
// template placeholders.
func (b ResponseBuilder) WithJSONBody(value any) ResponseBuilder {
	next := b.clone()
	next.tmpl.BodyJSON = value
	next.tmpl.BodyText = ""
	next.tmpl.BodyFile = ""
	return next
}

// WithBodyFile sets a file-backed body.
func (b ResponseBuilder) WithBodyFile(path string) ResponseBuilder {
	next := b.clone()
	next.tmpl.BodyFile = path
	next.tmpl.BodyText = ""
	next.tmpl.BodyJSON = nil
	return next
}

// WithProxy routes the response through the given proxy template.
func (b ResponseBuilder) WithProxy(proxy *ProxyTemplate) ResponseBuilder {
	next := b.clone()
	next.tmpl.Proxy = proxy
	return next
}

// WithCallback routes the response through a CallbackResponder.
func (b ResponseBuilder) WithCallback(cb CallbackResponder) ResponseBuilder {
	next := b.clone()
	next.tmpl.Callback = cb
	return next
}

// WithFault sets a fault directive, overriding body construction.
func (b ResponseBuilder) WithFault(fault *Fault) ResponseBuilder {
	next := b.clone()
	next.tmpl.Fault = fault
	return next
}

// Build produces the immutable ResponseTemplate.
func (b ResponseBuilder) Build() *ResponseTemplate {
	tmpl := b.tmpl
	tmpl.Headers = append([]KV(nil), b.tmpl.Headers...)
	return &tmpl
}
