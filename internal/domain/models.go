package domain

// Candidate is one launchable entry found on the search path.
// Candidates are created in bulk at startup and never mutated.
type Candidate struct {
	Name       string // display name, the executable's base name
	Invocation string // full path used to spawn the program
}

// MatchResult pairs a candidate with the outcome of scoring it
// against the current query.
type MatchResult struct {
	Candidate  Candidate
	StoreIndex int // enumeration index in the candidate store, the ranking tie-break
	Score      float64
	Positions  []int // ascending rune offsets into Name consumed by the match
}
