// Package requestlog implements the append-only, bounded request history:
// every matching operation appends one Entry, regardless of whether it
// found a winning mapping, and the admin surface queries it by filter
// (spec.md 4.8).
package requestlog

import (
	"time"

	"github.com/getmockd/mockd/pkg/mapping"
)

// PartialCandidate is one near-miss diagnostic: a mapping that scored
// above zero but was not chosen.
type PartialCandidate struct {
	MappingID string
	Score     float64
}

// Timing records when the three phases of handling a request occurred.
type Timing struct {
	Started   time.Time
	Matched   time.Time
	Completed time.Time
}

// Entry is one logged (request, outcome, response) triple.
type Entry struct {
	ID        string
	Request   *mapping.RequestMessage
	Response  *mapping.ResponseMessage
	Timing    Timing
	Canceled  bool

	// MatchedMappingID is empty when no mapping won (spec.md 3:
	// "matched_mapping_id: optional UUID").
	MatchedMappingID       string
	PartialMatchCandidates []PartialCandidate

	ProxyMetadata *mapping.ProxyMetadata
}
