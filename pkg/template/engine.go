// Package template implements the mustache-like {{expr}} evaluator the
// response generator uses to fill in status/header/body placeholders,
// with access to the triggering request, scenario state, and a handful of
// non-deterministic built-ins (spec.md 4.7).
package template

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Engine evaluates {{expr}} placeholders against a Context. It is
// stateless and safe for concurrent use; all per-evaluation state lives in
// the Context passed to Process.
type Engine struct{}

// New returns a template engine.
func New() *Engine {
	return &Engine{}
}

var placeholderRegex = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Process replaces every {{expr}} in tmpl with its evaluated value.
// Unknown references resolve to the empty string (spec.md 4.7); Process
// itself never fails.
func (e *Engine) Process(tmpl string, ctx *Context) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		return e.evaluate(expr, ctx)
	})
}

// ProcessValue recursively applies Process to every string leaf of an
// arbitrary JSON-shaped value (map[string]any / []any / scalars),
// supporting the templated JSON body path (spec.md 4.7).
func (e *Engine) ProcessValue(v any, ctx *Context) any {
	switch val := v.(type) {
	case string:
		return e.Process(val, ctx)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = e.ProcessValue(child, ctx)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = e.ProcessValue(child, ctx)
		}
		return out
	default:
		return v
	}
}

func (e *Engine) evaluate(expr string, ctx *Context) string {
	expr = strings.TrimSpace(expr)

	switch expr {
	case "now":
		return funcNow()
	case "timestamp":
		return funcTimestamp()
	case "guid", "uuid":
		return funcGUID()
	case "random":
		return funcRandomHex(ctx)
	}

	if result, handled := e.evaluateFunctionWithArgs(expr, ctx); handled {
		return result
	}
	if rest, ok := strings.CutPrefix(expr, "request."); ok {
		return e.evaluateRequest(rest, ctx)
	}
	if rest, ok := strings.CutPrefix(expr, "scenario."); ok {
		return e.evaluateScenario(rest, ctx)
	}
	return ""
}

func (e *Engine) evaluateFunctionWithArgs(expr string, ctx *Context) (string, bool) {
	parts := strings.Fields(expr)
	if len(parts) == 0 {
		return "", false
	}
	name, args := parts[0], parts[1:]

	switch name {
	case "random.int":
		if len(args) != 2 {
			return "", true
		}
		min, err1 := strconv.Atoi(args[0])
		max, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return "", true
		}
		result, _ := funcRandomInt(ctx, min, max)
		return result, true
	case "upper":
		if len(args) != 1 {
			return "", true
		}
		return funcUpper(e.resolveValue(args[0], ctx)), true
	case "lower":
		if len(args) != 1 {
			return "", true
		}
		return funcLower(e.resolveValue(args[0], ctx)), true
	case "default":
		if len(args) < 2 {
			return "", true
		}
		value := e.resolveValue(args[0], ctx)
		fallback := parseStringArg(strings.Join(args[1:], " "))
		return funcDefault(value, fallback), true
	}
	return "", false
}

func (e *Engine) resolveValue(ref string, ctx *Context) string {
	if rest, ok := strings.CutPrefix(ref, "request."); ok {
		return e.evaluateRequest(rest, ctx)
	}
	if rest, ok := strings.CutPrefix(ref, "scenario."); ok {
		return e.evaluateScenario(rest, ctx)
	}
	return parseStringArg(ref)
}

func (e *Engine) evaluateRequest(expr string, ctx *Context) string {
	if ctx == nil || ctx.Request == nil {
		return ""
	}
	req := ctx.Request
	parts := strings.SplitN(expr, ".", 2)
	field := parts[0]

	switch field {
	case "method":
		return req.Method
	case "path":
		return req.Path
	case "url", "absoluteUrl":
		return req.AbsoluteURL
	case "body":
		return req.Text
	case "bodyAsJson":
		if len(parts) == 2 {
			return e.evaluateBodyField(parts[1], req.JSON)
		}
		return ""
	case "query":
		if len(parts) == 2 {
			if v, ok := req.QueryValue(parts[1]); ok {
				return v
			}
		}
		return ""
	case "headers":
		if len(parts) == 2 {
			if v, ok := req.Header(http.CanonicalHeaderKey(parts[1])); ok {
				return v
			}
		}
		return ""
	case "cookies":
		if len(parts) == 2 {
			return req.Cookies[parts[1]]
		}
		return ""
	}
	return ""
}

// evaluateScenario resolves {{scenario.<name>}} to that scenario's
// current state, or the empty string if the table is absent.
func (e *Engine) evaluateScenario(name string, ctx *Context) string {
	if ctx == nil || ctx.Scenarios == nil || name == "" {
		return ""
	}
	return ctx.Scenarios.StateOf(name)
}

// evaluateBodyField walks dot-notation path ("user.name") over a parsed
// JSON value. Array indexing is not supported, matching the teacher's
// evaluator.
func (e *Engine) evaluateBodyField(path string, body any) string {
	current := body
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = m[part]
		if !ok {
			return ""
		}
	}
	if current == nil {
		return ""
	}
	if s, ok := current.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", current)
}
