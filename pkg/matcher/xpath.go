package matcher

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/mockd/pkg/mapping"
)

// XPath matches an XPath expression against the request body parsed as
// XML. An empty Expected means "element exists"; otherwise the element's
// trimmed text (or, for an "elem/@attr" expression, the attribute value)
// must equal Expected.
type XPath struct {
	Expression string
	Expected   string
	Behavior   MatchBehavior
}

func (x *XPath) Score(req *mapping.RequestMessage) float64 {
	if len(req.RawBody) == 0 {
		return applyBehavior(x.Behavior, 0)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(req.RawBody); err != nil {
		return applyBehavior(x.Behavior, 0)
	}
	actual, found := extractXPath(doc, x.Expression)
	if x.Expected == "" {
		if found {
			return applyBehavior(x.Behavior, 1)
		}
		return applyBehavior(x.Behavior, 0)
	}
	if found && actual == x.Expected {
		return applyBehavior(x.Behavior, 1)
	}
	return applyBehavior(x.Behavior, 0)
}

func extractXPath(doc *etree.Document, xpath string) (string, bool) {
	if elem := doc.FindElement(xpath); elem != nil {
		return strings.TrimSpace(elem.Text()), true
	}
	if elemPath, attrName, ok := strings.Cut(xpath, "/@"); ok {
		if elem := doc.FindElement(elemPath); elem != nil {
			if attr := elem.SelectAttr(attrName); attr != nil {
				return attr.Value, true
			}
		}
	}
	return "", false
}

// NewXPath builds an XPath matcher. expression is validated by attempting
// a no-op evaluation against an empty document; a malformed expression
// fails at construction rather than per-request.
func NewXPath(expression, expected string, behavior MatchBehavior) (m *XPath, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, errInvalidXPath(expression)
		}
	}()
	doc := etree.NewDocument()
	doc.FindElement(expression)
	return &XPath{Expression: expression, Expected: expected, Behavior: behavior}, nil
}

func errInvalidXPath(expression string) error {
	return &invalidXPathError{expression: expression}
}

type invalidXPathError struct{ expression string }

func (e *invalidXPathError) Error() string {
	return "matcher: invalid XPath expression: " + e.expression
}
