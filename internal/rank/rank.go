// Package rank orders the candidate store against a query. It is pure
// and re-entrant: no hidden state, safe to call from any event loop.
package rank

import (
	"sort"

	"dmitri/internal/domain"
	"dmitri/internal/match"
	"dmitri/internal/store"
)

// RankedList is an ordered sequence of match results, best first.
// Equal scores keep candidate-store enumeration order, so ranking is
// deterministic and the UI never flickers between runs.
type RankedList []domain.MatchResult

// Names returns the display names in rank order, for rendering.
func (l RankedList) Names() []string {
	names := make([]string, len(l))
	for i, r := range l {
		names[i] = r.Candidate.Name
	}
	return names
}

// Rank scores every candidate in the store against the query and
// returns the matches ordered by score descending. Candidates that do
// not match are discarded; an empty result is a normal outcome, not an
// error. The whole list is recomputed on every call.
func Rank(query string, s *store.CandidateStore, subtextWeight float64) RankedList {
	results := make(RankedList, 0, s.Len())
	for i, c := range s.All() {
		res, ok := match.Score(query, c.Name, subtextWeight)
		if !ok {
			continue
		}
		results = append(results, domain.MatchResult{
			Candidate:  c,
			StoreIndex: i,
			Score:      res.Score,
			Positions:  res.Positions,
		})
	}

	// Stable sort keyed on score only: input is already in store order,
	// so ties keep their enumeration order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
