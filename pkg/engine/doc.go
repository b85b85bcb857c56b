// Package engine implements the matching algorithm (spec.md 4.6) and the
// http.Handler that wires request decoding, matching, response
// generation, and request logging into one request/response cycle.
package engine
