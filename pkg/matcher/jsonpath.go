package matcher

import (
	"reflect"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/mockd/pkg/mapping"
)

// JsonPath matches when expr applied to the request's JSON body yields at
// least one node; an {"exists": false} expected value inverts that to "no
// node found" (spec.md 4.1: "returns 1 if any node satisfies the
// predicate, else 0").
type JsonPath struct {
	expr     jp.Expr
	Expected any // nil means "path exists"; map with "exists" key is an existence check
	Behavior MatchBehavior
}

func (j *JsonPath) Score(req *mapping.RequestMessage) float64 {
	if req.JSON == nil {
		return applyBehavior(j.Behavior, existenceMiss(j.Expected))
	}
	results := j.expr.Get(req.JSON)
	if exists, wantExists, ok := existenceCheck(j.Expected); ok {
		_ = exists
		if wantExists == (len(results) > 0) {
			return applyBehavior(j.Behavior, 1)
		}
		return applyBehavior(j.Behavior, 0)
	}
	if j.Expected == nil {
		if len(results) > 0 {
			return applyBehavior(j.Behavior, 1)
		}
		return applyBehavior(j.Behavior, 0)
	}
	for _, result := range results {
		if jsonValuesEqual(result, j.Expected) {
			return applyBehavior(j.Behavior, 1)
		}
	}
	return applyBehavior(j.Behavior, 0)
}

func existenceMiss(expected any) float64 {
	if _, wantExists, ok := existenceCheck(expected); ok && !wantExists {
		return 1
	}
	return 0
}

// NewJsonPath parses path and builds a JsonPath matcher. expected may be
// nil (plain existence check), an {"exists": bool} map, or a literal value
// to compare each matched node against.
func NewJsonPath(path string, expected any, behavior MatchBehavior) (*JsonPath, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, err
	}
	return &JsonPath{expr: expr, Expected: expected, Behavior: behavior}, nil
}

// JsonPartial walks a set of expected leaves (JSONPath -> value) and
// reports the fraction found equal in the request's JSON body; missing
// leaves count as a miss and a "*" wildcard value skips equality for that
// leaf (spec.md 4.1).
type JsonPartial struct {
	Leaves   map[string]any // JSONPath -> expected value, or "*" to skip equality
	Behavior MatchBehavior
}

func (j *JsonPartial) Score(req *mapping.RequestMessage) float64 {
	if len(j.Leaves) == 0 {
		return applyBehavior(j.Behavior, 1)
	}
	if req.JSON == nil {
		return applyBehavior(j.Behavior, 0)
	}
	hits := 0
	for path, expected := range j.Leaves {
		expr, err := jp.ParseString(path)
		if err != nil {
			continue
		}
		results := expr.Get(req.JSON)
		if len(results) == 0 {
			continue
		}
		if expected == "*" {
			hits++
			continue
		}
		for _, result := range results {
			if jsonValuesEqual(result, expected) {
				hits++
				break
			}
		}
	}
	return applyBehavior(j.Behavior, float64(hits)/float64(len(j.Leaves)))
}

// NewJsonPartial builds a JsonPartial matcher. Each key of leaves must be
// a valid JSONPath expression; this is validated eagerly so a malformed
// leaf path is a construction-time error.
func NewJsonPartial(leaves map[string]any, behavior MatchBehavior) (*JsonPartial, error) {
	for path := range leaves {
		if _, err := jp.ParseString(path); err != nil {
			return nil, err
		}
	}
	return &JsonPartial{Leaves: leaves, Behavior: behavior}, nil
}

func existenceCheck(expected any) (exists bool, wantExists bool, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap {
		return false, false, false
	}
	v, has := m["exists"]
	if !has || len(m) != 1 {
		return false, false, false
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false, false
	}
	return b, b, true
}

func jsonValuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}
	actualStr, actualIsStr := actual.(string)
	expectedStr, expectedIsStr := expected.(string)
	if actualIsStr && expectedIsStr {
		return actualStr == expectedStr
	}
	actualBool, actualIsBool := actual.(bool)
	expectedBool, expectedIsBool := expected.(bool)
	if actualIsBool && expectedIsBool {
		return actualBool == expectedBool
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
