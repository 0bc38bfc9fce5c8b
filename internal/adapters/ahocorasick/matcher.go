// Package ahocorasick implements ports.PatternMatcher on top of the
// automaton package. It converts stored dictionary entries according to
// their value policy and turns rune offsets into line/column positions.
package ahocorasick

import (
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/corey/ahoc/internal/domain/automaton"
	"github.com/corey/ahoc/internal/ports"
)

// Matcher implements ports.PatternMatcher. The zero value matches nothing
// until Rebuild succeeds. Rebuild publishes a fully compiled automaton with
// an atomic swap, so readers never see a half-built one.
type Matcher struct {
	current atomic.Pointer[automaton.Automaton]
}

var _ ports.PatternMatcher = (*Matcher)(nil)

// Build converts entries under policy and compiles them into an automaton.
func Build(policy string, entries []ports.Entry) (*automaton.Automaton, error) {
	p, err := automaton.ParseValuePolicy(policy)
	if err != nil {
		return nil, err
	}
	a := automaton.New(p)
	for _, e := range entries {
		if _, err := AddEntry(a, e); err != nil {
			return nil, err
		}
	}
	if err := a.MakeAutomaton(); err != nil {
		return nil, err
	}
	return a, nil
}

// AddEntry inserts one stored entry into a using a's value policy. Stored
// values are strings; under StoreInts they are parsed as base-10 integers.
func AddEntry(a *automaton.Automaton, e ports.Entry) (bool, error) {
	if !e.HasValue {
		return a.AddKey(e.Keyword)
	}
	switch a.Policy() {
	case automaton.StoreInts:
		n, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not an integer", automaton.ErrInvalidValue, e.Value)
		}
		return a.AddWord(e.Keyword, n)
	default:
		return a.AddWord(e.Keyword, e.Value)
	}
}

// Rebuild compiles a new automaton and swaps it in. On error the previous
// automaton stays active.
func (m *Matcher) Rebuild(policy string, entries []ports.Entry) error {
	a, err := Build(policy, entries)
	if err != nil {
		return err
	}
	m.current.Store(a)
	return nil
}

// Automaton returns the active automaton, or nil before the first Rebuild.
func (m *Matcher) Automaton() *automaton.Automaton {
	return m.current.Load()
}

// PatternCount returns the number of keywords in the active automaton.
func (m *Matcher) PatternCount() int {
	a := m.current.Load()
	if a == nil {
		return 0
	}
	return a.Len()
}

// Match returns the distinct keywords found in content.
func (m *Matcher) Match(content string) []string {
	a := m.current.Load()
	if a == nil || a.Len() == 0 {
		return nil
	}
	seq, err := a.Iter(content)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for hit := range seq {
		if !seen[hit.Keyword] {
			seen[hit.Keyword] = true
			result = append(result, hit.Keyword)
		}
	}
	return result
}

// Scan returns every occurrence in content with line/column positions.
func (m *Matcher) Scan(content string) []ports.TextMatch {
	a := m.current.Load()
	if a == nil || a.Len() == 0 {
		return nil
	}
	hits, err := a.Search(content)
	if err != nil {
		return nil
	}
	return locate(content, hits)
}

// ScanLongest returns leftmost-longest non-overlapping occurrences.
func (m *Matcher) ScanLongest(content string) []ports.TextMatch {
	a := m.current.Load()
	if a == nil || a.Len() == 0 {
		return nil
	}
	hits, err := a.FindLongest(content)
	if err != nil {
		return nil
	}
	return locate(content, hits)
}

// locate attaches 1-based line and column numbers to hits.
func locate(content string, hits []automaton.Match) []ports.TextMatch {
	if len(hits) == 0 {
		return nil
	}
	lines := lineStarts(content)
	out := make([]ports.TextMatch, len(hits))
	for i, h := range hits {
		// Index of the last line starting at or before h.Start.
		ln := sort.Search(len(lines), func(j int) bool { return lines[j] > h.Start }) - 1
		out[i] = ports.TextMatch{
			Keyword: h.Keyword,
			Value:   h.Value,
			Start:   h.Start,
			End:     h.End + 1,
			Line:    ln + 1,
			Column:  h.Start - lines[ln] + 1,
		}
	}
	return out
}

// lineStarts returns the rune offset at which each line begins.
func lineStarts(content string) []int {
	starts := []int{0}
	i := 0
	for _, r := range content {
		i++
		if r == '\n' {
			starts = append(starts, i)
		}
	}
	return starts
}
