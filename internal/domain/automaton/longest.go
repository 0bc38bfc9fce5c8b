package automaton

import "slices"

// FindLongest returns non-overlapping occurrences chosen leftmost-longest:
// scanning left to right, the longest keyword starting at the leftmost
// remaining position wins and scanning resumes after it.
func (a *Automaton) FindLongest(text string) ([]Match, error) {
	all, err := a.Search(text)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	slices.SortStableFunc(all, func(x, y Match) int {
		if x.Start != y.Start {
			return x.Start - y.Start
		}
		return y.End - x.End
	})

	out := all[:0]
	next := 0
	for _, m := range all {
		if m.Start < next {
			continue
		}
		out = append(out, m)
		next = m.End + 1
	}
	return out, nil
}
