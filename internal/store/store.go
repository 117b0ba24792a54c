// Package store holds the immutable set of launchable candidates built
// once at startup. All dynamism lives in the selection state; the store
// never changes after construction.
package store

import (
	"dmitri/internal/domain"
)

// CandidateStore is the immutable candidate set. Enumeration order is
// fixed at build time and serves as the ranking tie-break.
type CandidateStore struct {
	candidates []domain.Candidate
}

// New builds a store from candidates in the given order, dropping
// duplicates by invocation path (first-seen wins). Duplicate display
// names are allowed: overlapping search-path directories produce them.
func New(candidates []domain.Candidate) *CandidateStore {
	seen := make(map[string]bool, len(candidates))
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Invocation] {
			continue
		}
		seen[c.Invocation] = true
		kept = append(kept, c)
	}
	return &CandidateStore{candidates: kept}
}

// NewRecentFirst builds a store with the given invocations promoted to
// the front, most recent first, ahead of the remaining candidates in
// their original order. The promotion happens at build time only; the
// resulting order is as fixed as any other store's.
func NewRecentFirst(candidates []domain.Candidate, recent []string) *CandidateStore {
	base := New(candidates)

	rank := make(map[string]int, len(recent))
	for i, inv := range recent {
		rank[inv] = i
	}

	promoted := make([]domain.Candidate, 0, len(base.candidates))
	rest := make([]domain.Candidate, 0, len(base.candidates))
	for _, c := range base.candidates {
		if _, ok := rank[c.Invocation]; ok {
			promoted = append(promoted, c)
		} else {
			rest = append(rest, c)
		}
	}

	// Insertion order within promoted follows store order; reorder by
	// recency rank. The list is short so a simple stable pass is fine.
	for i := 1; i < len(promoted); i++ {
		for j := i; j > 0 && rank[promoted[j].Invocation] < rank[promoted[j-1].Invocation]; j-- {
			promoted[j], promoted[j-1] = promoted[j-1], promoted[j]
		}
	}

	return &CandidateStore{candidates: append(promoted, rest...)}
}

// Len returns the number of candidates.
func (s *CandidateStore) Len() int {
	return len(s.candidates)
}

// At returns the candidate at enumeration index i.
func (s *CandidateStore) At(i int) domain.Candidate {
	return s.candidates[i]
}

// All returns the candidates in enumeration order. Callers must not
// mutate the returned slice.
func (s *CandidateStore) All() []domain.Candidate {
	return s.candidates
}

// FindByName reports whether any candidate has exactly the given
// display name.
func (s *CandidateStore) FindByName(name string) (domain.Candidate, bool) {
	for _, c := range s.candidates {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Candidate{}, false
}
