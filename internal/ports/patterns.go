// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. The app layer depends
// only on these interfaces, never on concrete adapters.
package ports

// PatternMatcher finds dictionary keywords in content using multi-pattern
// matching (Aho-Corasick). A single pass over the content finds every
// keyword occurrence, overlapping and nested ones included, in
// O(n + z) where n is the content length and z the number of matches.
//
// The matcher must be rebuilt when the dictionary changes. Rebuild swaps the
// automaton atomically, so Match and Scan may run concurrently with it and
// observe either the old or the new keyword set.
type PatternMatcher interface {
	// Rebuild replaces the keyword set. Entries are converted according to
	// policy ("any", "ints" or "length"). Returns an error if an entry
	// violates the policy; the previous keyword set stays active then.
	Rebuild(policy string, entries []Entry) error

	// Match returns the distinct keywords found in content in order of first
	// occurrence. Returns nil when nothing matches. Content is matched as-is
	// (caller normalizes case).
	Match(content string) []string

	// Scan returns every occurrence in content with positions.
	Scan(content string) []TextMatch

	// ScanLongest returns non-overlapping occurrences, leftmost-longest.
	ScanLongest(content string) []TextMatch
}

// TextMatch is one keyword occurrence. Offsets are rune offsets into the
// scanned content; Line and Column are 1-based and Column counts runes.
type TextMatch struct {
	Keyword string
	Value   any
	Start   int // rune offset, inclusive
	End     int // rune offset, exclusive
	Line    int
	Column  int
}
