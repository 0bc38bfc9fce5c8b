package automaton

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// AddWord inserts key with an explicit value and reports whether key is a
// new keyword. Re-adding an existing keyword replaces its value and leaves
// the trie shape untouched. An empty key is a no-op and returns false; a key
// that is not valid UTF-8 is rejected with ErrInvalidValue.
//
// Under StoreInts the value must be an integer that fits in an int32.
// Under StoreLength no value may be supplied; use AddKey.
func (a *Automaton) AddWord(key string, value any) (bool, error) {
	if a.compiled {
		return false, fmt.Errorf("%w: cannot add %q to a compiled automaton", ErrInvalidState, key)
	}
	if key == "" {
		return false, nil
	}
	if !utf8.ValidString(key) {
		return false, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidValue, key)
	}

	switch a.policy {
	case StoreInts:
		n, err := toInt32(value)
		if err != nil {
			return false, err
		}
		value = int(n)
	case StoreLength:
		return false, fmt.Errorf("%w: length policy stores the key length, got explicit value for %q", ErrInvalidValue, key)
	}
	return a.insert(key, value), nil
}

// AddKey inserts key without a value. Under StoreInts the stored value is the
// number of distinct keywords inserted so far; under StoreLength it is the
// rune count of key. StoreAny requires a value and rejects the call.
func (a *Automaton) AddKey(key string) (bool, error) {
	if a.compiled {
		return false, fmt.Errorf("%w: cannot add %q to a compiled automaton", ErrInvalidState, key)
	}
	if key == "" {
		return false, nil
	}
	if !utf8.ValidString(key) {
		return false, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidValue, key)
	}

	var value any
	switch a.policy {
	case StoreAny:
		return false, fmt.Errorf("%w: a value is required for %q", ErrInvalidValue, key)
	case StoreInts:
		value = a.words
	case StoreLength:
		value = utf8.RuneCountInString(key)
	}
	return a.insert(key, value), nil
}

// insert walks key from the root, creating missing nodes, and marks the
// final node terminal.
func (a *Automaton) insert(key string, value any) bool {
	cur := root
	for _, r := range key {
		child, ok := a.nodes[cur].next[r]
		if !ok {
			child = int32(len(a.nodes))
			a.nodes = append(a.nodes, newNode(r, cur, a.nodes[cur].depth+1))
			a.nodes[cur].next[r] = child
		}
		cur = child
	}

	n := &a.nodes[cur]
	n.value = value
	if n.terminal {
		return false
	}
	n.terminal = true
	n.keyword = key
	a.words++
	return true
}

func toInt32(v any) (int32, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d does not fit in int32", ErrInvalidValue, x)
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %d does not fit in int32", ErrInvalidValue, x)
		}
		n = int64(x)
	default:
		return 0, fmt.Errorf("%w: want an integer, got %T", ErrInvalidValue, v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d does not fit in int32", ErrInvalidValue, n)
	}
	return int32(n), nil
}

// invalidByte stands for a byte that is not part of a valid UTF-8 sequence.
// Keywords are valid UTF-8, so no edge is ever labelled with it.
const invalidByte rune = -1

// decode returns the first symbol of s and its width in bytes. Unlike a
// range loop it keeps a stray byte distinct from an encoded U+FFFD.
func decode(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return invalidByte, 1
	}
	return r, size
}

// walk follows the trie edges spelled by key and returns the node reached.
// It only uses edges created by insertion, so it gives the same answer
// before and after compilation.
func (a *Automaton) walk(key string) (int32, bool) {
	cur := root
	for i := 0; i < len(key); {
		r, size := decode(key[i:])
		i += size
		child, ok := a.child(cur, r)
		if !ok {
			return root, false
		}
		cur = child
	}
	return cur, true
}

// child returns the trie child of id on r, ignoring transitions inherited
// during compilation.
func (a *Automaton) child(id int32, r rune) (int32, bool) {
	c, ok := a.nodes[id].next[r]
	if !ok || a.nodes[c].parent != id || a.nodes[c].depth != a.nodes[id].depth+1 {
		return 0, false
	}
	return c, true
}

// Get returns the value stored for key, or ErrNotFound.
func (a *Automaton) Get(key string) (any, error) {
	id, ok := a.walk(key)
	if !ok || !a.nodes[id].terminal {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return a.nodes[id].value, nil
}

// GetOr returns the value stored for key, or def when key is absent.
func (a *Automaton) GetOr(key string, def any) any {
	v, err := a.Get(key)
	if err != nil {
		return def
	}
	return v
}

// Contains reports whether key was inserted as a keyword.
func (a *Automaton) Contains(key string) bool {
	id, ok := a.walk(key)
	return ok && a.nodes[id].terminal
}

// HasPrefix reports whether some keyword starts with prefix.
// The empty prefix matches only when the automaton holds keywords.
func (a *Automaton) HasPrefix(prefix string) bool {
	if prefix == "" {
		return a.words > 0
	}
	_, ok := a.walk(prefix)
	return ok
}

// LongestPrefix returns the rune length of the longest prefix of text that
// is also a prefix of some keyword.
func (a *Automaton) LongestPrefix(text string) int {
	cur := root
	n := 0
	for i := 0; i < len(text); {
		r, size := decode(text[i:])
		i += size
		child, ok := a.child(cur, r)
		if !ok {
			break
		}
		cur = child
		n++
	}
	return n
}
