package engine

import (
	"sort"

	"github.com/getmockd/mockd/pkg/mapping"
	"github.com/getmockd/mockd/pkg/requestlog"
	"github.com/getmockd/mockd/pkg/scenario"
)

// DefaultPerfectThreshold is the score a mapping must reach to win a
// normal (non-partial-match) request, per spec.md 9's Open Question
// resolution: "Partial-match mode's exact threshold is not documented;
// this spec exposes it as a setting with default 1.0."
const DefaultPerfectThreshold = 1.0

// MaxPartialCandidates bounds the near-miss diagnostics retained on a
// miss (spec.md 4.6: "retain the top-5 partial candidates").
const MaxPartialCandidates = 5

// candidate is one scored mapping, used internally while sorting.
type candidate struct {
	m     *mapping.Mapping
	score float64
}

// MatchResult is the outcome of one matching operation.
type MatchResult struct {
	Winner            *mapping.Mapping
	Score             float64
	PartialCandidates []requestlog.PartialCandidate
}

// Match runs the algorithm in spec.md 4.6 against snapshot (already a
// consistent view from MappingStore.Snapshot) and req. perfectThreshold is
// the minimum score required to win outside partial-match mode;
// allowPartialMatches relaxes that requirement entirely, letting the
// highest-scoring eligible mapping win regardless of threshold.
func Match(snapshot []*mapping.Mapping, req *mapping.RequestMessage, scenarios *scenario.Table, perfectThreshold float64, allowPartialMatches bool) *MatchResult {
	var scored []candidate

	for _, m := range snapshot {
		if m.Scenario != nil && !scenarios.Eligible(m.Scenario.Name, m.Scenario.RequiredState) {
			continue
		}
		total := m.Tree.Score(req)
		if total > 0 {
			scored = append(scored, candidate{m: m, score: total})
		}
	}

	partials := topPartials(scored)

	var survivors []candidate
	for _, c := range scored {
		if allowPartialMatches || c.score >= perfectThreshold {
			survivors = append(survivors, c)
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.m.Priority != b.m.Priority {
			return a.m.Priority < b.m.Priority
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.m.InsertionIndex < b.m.InsertionIndex
	})

	if len(survivors) == 0 {
		return &MatchResult{PartialCandidates: partials}
	}
	return &MatchResult{Winner: survivors[0].m, Score: survivors[0].score, PartialCandidates: partials}
}

// topPartials returns up to MaxPartialCandidates candidates, highest score
// first, for near-miss diagnostics on a no-match outcome (spec.md 4.6).
func topPartials(scored []candidate) []requestlog.PartialCandidate {
	if len(scored) == 0 {
		return nil
	}
	sorted := make([]candidate, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].score > sorted[j].score })

	n := len(sorted)
	if n > MaxPartialCandidates {
		n = MaxPartialCandidates
	}
	out := make([]requestlog.PartialCandidate, n)
	for i := 0; i < n; i++ {
		out[i] = requestlog.PartialCandidate{MappingID: sorted[i].m.ID, Score: sorted[i].score}
	}
	return out
}
