package automaton

import (
	"iter"
	"slices"
	"unicode/utf8"
)

// MatchHow selects how KeysMatching compares keyword length to the pattern.
type MatchHow int

const (
	// MatchExactLength yields keywords exactly as long as the pattern.
	MatchExactLength MatchHow = iota
	// MatchAtMostPrefix yields keywords that are prefixes of the pattern.
	MatchAtMostPrefix
	// MatchAtLeastPrefix yields keywords the pattern is a prefix of.
	MatchAtLeastPrefix
)

// NoWildcard disables wildcard handling in KeysMatching.
const NoWildcard rune = -1

// Items yields every keyword and its value in lexicographic rune order.
// It walks trie edges only, so it works before and after compilation.
func (a *Automaton) Items() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		a.descend(root, func(id int32) bool {
			return yield(a.nodes[id].keyword, a.nodes[id].value)
		})
	}
}

// Keys yields every keyword in lexicographic rune order.
func (a *Automaton) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range a.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every stored value in the order of Keys.
func (a *Automaton) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range a.Items() {
			if !yield(v) {
				return
			}
		}
	}
}

// KeysMatching yields keywords that match pattern under how. Each
// occurrence of wildcard in pattern matches any single rune; pass NoWildcard
// to compare literally.
func (a *Automaton) KeysMatching(pattern string, wildcard rune, how MatchHow) iter.Seq[string] {
	pat := []rune(pattern)
	return func(yield func(string) bool) {
		if !utf8.ValidString(pattern) {
			return
		}
		a.matchFrom(root, pat, 0, wildcard, how, yield)
	}
}

func (a *Automaton) matchFrom(id int32, pat []rune, i int, wildcard rune, how MatchHow, yield func(string) bool) bool {
	n := &a.nodes[id]
	if i == len(pat) {
		if how == MatchAtLeastPrefix {
			return a.descend(id, func(t int32) bool { return yield(a.nodes[t].keyword) })
		}
		if n.terminal {
			return yield(n.keyword)
		}
		return true
	}

	if how == MatchAtMostPrefix && n.terminal {
		if !yield(n.keyword) {
			return false
		}
	}

	if pat[i] == wildcard {
		for _, c := range a.children(id) {
			if !a.matchFrom(c, pat, i+1, wildcard, how, yield) {
				return false
			}
		}
		return true
	}
	if c, ok := a.child(id, pat[i]); ok {
		return a.matchFrom(c, pat, i+1, wildcard, how, yield)
	}
	return true
}

// descend visits every terminal node in the subtree of id, id included,
// depth-first in rune order. It stops early when visit returns false.
func (a *Automaton) descend(id int32, visit func(int32) bool) bool {
	stack := []int32{id}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if a.nodes[top].terminal && !visit(top) {
			return false
		}
		kids := a.children(top)
		for j := len(kids) - 1; j >= 0; j-- {
			stack = append(stack, kids[j])
		}
	}
	return true
}

// children returns the trie children of id sorted by symbol.
func (a *Automaton) children(id int32) []int32 {
	n := &a.nodes[id]
	kids := make([]int32, 0, len(n.next))
	for _, c := range n.next {
		if a.nodes[c].parent == id {
			kids = append(kids, c)
		}
	}
	slices.SortFunc(kids, func(x, y int32) int {
		return int(a.nodes[x].symbol) - int(a.nodes[y].symbol)
	})
	return kids
}

// Stats describes the size of an automaton.
type Stats struct {
	Nodes       int // trie nodes including the root
	Words       int // distinct keywords
	LongestWord int // runes in the longest keyword
	Transitions int // transition table entries across all nodes
	Inherited   int // entries copied from suffix links by MakeAutomaton
}

// Stats walks the arena and reports its size.
func (a *Automaton) Stats() Stats {
	s := Stats{Nodes: len(a.nodes), Words: a.words}
	for id := range a.nodes {
		n := &a.nodes[id]
		s.Transitions += len(n.next)
		for _, c := range n.next {
			if a.nodes[c].parent != int32(id) {
				s.Inherited++
			}
		}
		if n.terminal {
			s.LongestWord = max(s.LongestWord, int(n.depth))
		}
	}
	return s
}
