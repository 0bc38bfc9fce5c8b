// Package automaton implements an Aho-Corasick multi-keyword matcher.
//
// Lifecycle: New → AddWord/AddKey → MakeAutomaton → Iter/Search → optional Clear.
// Keywords are inserted into a prefix trie; MakeAutomaton computes suffix
// links and completes every node's transition table, after which the trie is
// frozen and searches are allowed. A compiled Automaton is never written to
// again, so any number of goroutines may search it concurrently. Insertion
// and compilation are not safe for concurrent use.
//
// Symbols are Unicode code points. Every index reported by a search is a rune
// index into the searched text.
package automaton

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; returned errors wrap
// them with context.
var (
	// ErrInvalidState is returned when an operation is called out of order:
	// adding after compilation, compiling twice, searching before compiling.
	ErrInvalidState = errors.New("invalid automaton state")

	// ErrInvalidValue is returned when a value violates the value policy.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound is returned by Get for keys that are not stored.
	ErrNotFound = errors.New("key not found")

	// ErrOutOfRange is returned for a search window outside the text.
	ErrOutOfRange = errors.New("search window out of range")
)

// ValuePolicy governs which values AddWord and AddKey accept.
type ValuePolicy int

const (
	// StoreAny requires a value of any type for every keyword.
	StoreAny ValuePolicy = iota
	// StoreInts accepts an optional int32-representable integer. Without one,
	// the keyword's insertion index is stored.
	StoreInts
	// StoreLength stores the keyword's rune count; callers may not supply a value.
	StoreLength
)

func (p ValuePolicy) String() string {
	switch p {
	case StoreAny:
		return "any"
	case StoreInts:
		return "ints"
	case StoreLength:
		return "length"
	default:
		return fmt.Sprintf("ValuePolicy(%d)", int(p))
	}
}

// ParseValuePolicy maps "any", "ints" and "length" to a ValuePolicy.
func ParseValuePolicy(s string) (ValuePolicy, error) {
	switch s {
	case "any", "":
		return StoreAny, nil
	case "ints", "int":
		return StoreInts, nil
	case "length", "len":
		return StoreLength, nil
	default:
		return StoreAny, fmt.Errorf("%w: unknown value policy %q", ErrInvalidValue, s)
	}
}

// Kind reports what an Automaton currently is.
type Kind int

const (
	// Empty holds no keywords.
	Empty Kind = iota
	// Trie holds keywords but has not been compiled.
	Trie
	// AhoCorasick is compiled and searchable.
	AhoCorasick
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Trie:
		return "trie"
	case AhoCorasick:
		return "aho-corasick"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	root   int32 = 0
	noLink int32 = -1
)

// node is a trie vertex stored in the Automaton arena. All references
// between nodes are arena indices.
type node struct {
	symbol   rune
	parent   int32
	depth    int32
	next     map[rune]int32
	terminal bool
	keyword  string
	value    any

	// Set by MakeAutomaton. suffix is the longest proper suffix present in
	// the trie; output is the nearest terminal node on the suffix chain.
	suffix int32
	output int32
}

// Automaton is a keyword trie that compiles into an Aho-Corasick automaton.
// The zero value is not usable; call New.
type Automaton struct {
	nodes    []node
	words    int
	compiled bool
	policy   ValuePolicy
}

// New returns an empty automaton using the given value policy.
func New(policy ValuePolicy) *Automaton {
	a := &Automaton{policy: policy}
	a.reset()
	return a
}

func (a *Automaton) reset() {
	a.nodes = []node{newNode(0, root, 0)}
	a.words = 0
	a.compiled = false
}

func newNode(symbol rune, parent, depth int32) node {
	return node{
		symbol: symbol,
		parent: parent,
		depth:  depth,
		next:   make(map[rune]int32),
		suffix: noLink,
		output: noLink,
	}
}

// Clear discards every keyword and returns the automaton to the empty,
// uncompiled state. The value policy is kept.
func (a *Automaton) Clear() {
	a.reset()
}

// Policy returns the value policy chosen at construction.
func (a *Automaton) Policy() ValuePolicy { return a.policy }

// Len returns the number of distinct keywords.
func (a *Automaton) Len() int { return a.words }

// NodeCount returns the number of trie nodes including the root.
func (a *Automaton) NodeCount() int { return len(a.nodes) }

// Compiled reports whether MakeAutomaton has run.
func (a *Automaton) Compiled() bool { return a.compiled }

// Kind reports whether the automaton is empty, a plain trie, or compiled.
func (a *Automaton) Kind() Kind {
	switch {
	case a.words == 0:
		return Empty
	case a.compiled:
		return AhoCorasick
	default:
		return Trie
	}
}
