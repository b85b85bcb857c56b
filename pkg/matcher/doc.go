// Package matcher implements the scored predicate tree consulted by the
// matching algorithm in pkg/engine: leaf matchers over individual request
// fields (Exact, Wildcard, Regex, JsonPath, JsonPartial, XPath,
// LinqExpression, ContentType, Header, Cookie, Method, ClientIp, Custom)
// and the AllOf/AnyOf composites that combine them into a tree.
//
// Every matcher, leaf or composite, satisfies mapping.Matcher
// (Score(*mapping.RequestMessage) float64); nothing in this package
// imports pkg/mapping back for anything beyond that type and RequestMessage.
package matcher
