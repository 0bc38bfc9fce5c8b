package automaton

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// Match is one keyword occurrence. Start and End are rune indices into the
// searched text; End is inclusive.
type Match struct {
	Start   int
	End     int
	Keyword string
	Value   any
}

// Len returns the keyword length in runes.
func (m Match) Len() int { return m.End - m.Start + 1 }

// Iter returns every keyword occurrence in text, overlapping and nested ones
// included. Occurrences come in increasing End order; occurrences sharing an
// End come longest keyword first.
func (a *Automaton) Iter(text string) (iter.Seq[Match], error) {
	return a.IterRange(text, 0, -1)
}

// IterRange is Iter restricted to the rune window [start, end) of text.
// A negative end means the end of text. Reported indices stay relative to
// the whole text.
func (a *Automaton) IterRange(text string, start, end int) (iter.Seq[Match], error) {
	if !a.compiled {
		return nil, fmt.Errorf("%w: call MakeAutomaton before searching", ErrInvalidState)
	}
	n := utf8.RuneCountInString(text)
	if end < 0 {
		end = n
	}
	if start < 0 || start > end || end > n {
		return nil, fmt.Errorf("%w: [%d, %d) in text of %d runes", ErrOutOfRange, start, end, n)
	}

	return func(yield func(Match) bool) {
		a.scan(text, start, end, yield)
	}, nil
}

// scan runs the automaton over the runes of text in [start, end) and hands
// each occurrence to yield until yield returns false.
func (a *Automaton) scan(text string, start, end int, yield func(Match) bool) {
	nodes := a.nodes
	rootNext := nodes[root].next
	cur := root

	i := -1
	for b := 0; b < len(text); {
		r, size := decode(text[b:])
		b += size
		i++
		if i < start {
			continue
		}
		if i >= end {
			return
		}

		if t, ok := nodes[cur].next[r]; ok {
			cur = t
		} else if t, ok := rootNext[r]; ok {
			cur = t
		} else {
			cur = root
		}

		out := cur
		if !nodes[out].terminal {
			out = nodes[out].output
		}
		for out > root {
			n := &nodes[out]
			m := Match{
				Start:   i + 1 - int(n.depth),
				End:     i,
				Keyword: n.keyword,
				Value:   n.value,
			}
			if !yield(m) {
				return
			}
			out = n.output
		}
	}
}

// FindAll calls fn for each occurrence in the rune window [start, end) of
// text, in Iter order, until fn returns false. A negative end means the end
// of text.
func (a *Automaton) FindAll(text string, start, end int, fn func(Match) bool) error {
	seq, err := a.IterRange(text, start, end)
	if err != nil {
		return err
	}
	seq(fn)
	return nil
}

// Search collects every occurrence in text.
func (a *Automaton) Search(text string) ([]Match, error) {
	seq, err := a.Iter(text)
	if err != nil {
		return nil, err
	}
	var out []Match
	for m := range seq {
		out = append(out, m)
	}
	return out, nil
}
