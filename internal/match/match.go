// Package match implements the fuzzy scorer: ordered subsequence matching
// of a query against a candidate name, with an additive boost when a
// trailing fragment of the query occurs as a substring deeper in the name.
package match

import (
	"strings"
	"unicode"
)

// Scoring weights for the base formula. The subtext boost is deliberately
// not here: it is configuration, passed in per call.
const (
	contiguityBonus  = 1.0  // per pair of adjacent matched runes
	earlinessPenalty = 0.1  // per rune before the first match
)

// Result is a successful match of a query against a candidate name.
type Result struct {
	Score     float64
	Positions []int // ascending rune offsets into the name, one per non-space query rune
}

// Score matches query against name as a case-insensitive ordered
// subsequence. It reports false when some query rune cannot be placed
// after the previous match position.
//
// The score rewards contiguity (adjacent matched runes), earliness
// (matches near the start of the name) and coverage (queries spanning a
// large fraction of the name). subtextWeight is added on top when the
// trailing fragment of the query appears as a substring past the start
// of the name; it is treated as an opaque additive constant.
//
// Scoring is pure: identical inputs always produce identical results.
func Score(query, name string, subtextWeight float64) (Result, bool) {
	if query == "" {
		// Neutral score so an empty query shows the full list unranked.
		return Result{}, true
	}

	// Spaces separate query words but never occur in executable names,
	// so they are dropped before the subsequence phase.
	q := []rune(strings.ReplaceAll(strings.ToLower(query), " ", ""))
	n := []rune(strings.ToLower(name))
	if len(q) == 0 {
		return Result{}, true
	}

	positions, ok := subsequence(q, n)
	if !ok {
		return Result{}, false
	}

	score := 0.0
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			score += contiguityBonus
		}
	}
	score -= earlinessPenalty * float64(positions[0])
	score += float64(len(q)) / float64(len(n))

	if subtext([]rune(strings.ToLower(query)), n) {
		score += subtextWeight
	}

	return Result{Score: score, Positions: positions}, true
}

// subsequence finds the leftmost placement of q inside n, each rune
// strictly after the previous one. Leftmost placement keeps the
// positions deterministic.
func subsequence(q, n []rune) ([]int, bool) {
	positions := make([]int, 0, len(q))
	start := 0
	for _, qr := range q {
		found := -1
		for i := start; i < len(n); i++ {
			if n[i] == qr {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		positions = append(positions, found)
		start = found + 1
	}
	return positions, true
}

// subtext reports whether the trailing fragment of the query occurs as a
// contiguous substring beyond the first rune of the name. A short
// distinguishing fragment deep inside a long name ("shoot" inside
// "xfce4-screenshooter") qualifies; a plain prefix match does not, since
// the base score already rewards it.
func subtext(q, n []rune) bool {
	frag := trailingFragment(q)
	if len(frag) == 0 {
		return false
	}
	idx := strings.Index(string(n), string(frag))
	return idx > 0
}

// trailingFragment returns the part of the query after its last word
// delimiter, or the whole query when it has none.
func trailingFragment(q []rune) []rune {
	last := -1
	for i, r := range q {
		if isDelimiter(r) {
			last = i
		}
	}
	return q[last+1:]
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_'
}
