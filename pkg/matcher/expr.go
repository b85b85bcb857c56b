package matcher

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/mockd/pkg/mapping"
)

// exprEnv is the environment exposed to a LinqExpression, named per
// spec.md 4.7's templating document tree so the same vocabulary (method,
// path, headers, query, body, bodyAsJson) is available to both.
type exprEnv struct {
	Method     string
	Path       string
	Headers    map[string]string
	Query      map[string]string
	Body       string
	BodyAsJson any
}

func newExprEnv(req *mapping.RequestMessage) exprEnv {
	headers := make(map[string]string, len(req.Headers))
	for _, kv := range req.Headers {
		if _, ok := headers[kv.Key]; !ok {
			headers[kv.Key] = kv.Value
		}
	}
	query := make(map[string]string, len(req.Query))
	for _, kv := range req.Query {
		if _, ok := query[kv.Key]; !ok {
			query[kv.Key] = kv.Value
		}
	}
	return exprEnv{
		Method:     req.Method,
		Path:       req.Path,
		Headers:    headers,
		Query:      query,
		Body:       req.Text,
		BodyAsJson: req.JSON,
	}
}

// LinqExpression scores 1.0 when a compiled boolean expression evaluates
// truthy against the request, 0.0 on a falsy result or an evaluation
// error (spec.md 4.1: evaluation never panics a request).
type LinqExpression struct {
	program  *vm.Program
	Behavior MatchBehavior
}

func (l *LinqExpression) Score(req *mapping.RequestMessage) float64 {
	out, err := expr.Run(l.program, newExprEnv(req))
	if err != nil {
		return applyBehavior(l.Behavior, 0)
	}
	truthy, ok := out.(bool)
	if !ok || !truthy {
		return applyBehavior(l.Behavior, 0)
	}
	return applyBehavior(l.Behavior, 1)
}

// NewLinqExpression compiles expression once against exprEnv; a compile
// error is returned here, never from Score.
func NewLinqExpression(expression string, behavior MatchBehavior) (*LinqExpression, error) {
	program, err := expr.Compile(expression, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &LinqExpression{program: program, Behavior: behavior}, nil
}
