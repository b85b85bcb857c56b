// Package respgen builds a ResponseMessage from a winning Mapping's
// response template and the triggering request: static substitution,
// templated placeholders, proxying to an upstream, an embedder-supplied
// callback, or a deliberate fault, followed by delay application
// (spec.md 4.7/4.10).
package respgen
