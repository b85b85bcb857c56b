// Package mapping defines the normalized request/response value objects and
// the Mapping rule type that ties a match tree to a response template.
//
// RequestMessage and ResponseMessage are immutable once constructed: the
// HTTP adapter in pkg/engine builds a RequestMessage exactly once per
// inbound request and passes the same *RequestMessage through matching,
// templating, and logging.
package mapping
