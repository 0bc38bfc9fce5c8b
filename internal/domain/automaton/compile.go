package automaton

import "fmt"

// MakeAutomaton freezes the trie into an Aho-Corasick automaton. It computes
// the suffix link of every node and completes each transition table with
// the entries inherited from the node's suffix link, so a search step is a
// single table lookup with a fallback to the root's table.
//
// It may run once; a second call returns ErrInvalidState. After it returns
// no node is modified again until Clear.
func (a *Automaton) MakeAutomaton() error {
	if a.compiled {
		return fmt.Errorf("%w: automaton is already compiled", ErrInvalidState)
	}

	a.nodes[root].suffix = root
	a.nodes[root].output = noLink

	// Breadth-first from the root. A suffix link always points to a
	// shallower node, so when a node is dequeued every node its link can
	// reach has already been linked and completed.
	queue := make([]int32, 0, len(a.nodes))
	for _, c := range a.nodes[root].next {
		a.nodes[c].suffix = root
		a.nodes[c].output = noLink
		queue = append(queue, c)
	}

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		for _, c := range a.nodes[id].next {
			if a.nodes[c].parent != id {
				continue // inherited transition, not a trie edge
			}
			a.link(c)
			queue = append(queue, c)
		}
	}

	a.compiled = true
	return nil
}

// link resolves the suffix and output links of id and completes its
// transition table. The parent of id must already be linked and completed.
func (a *Automaton) link(id int32) {
	n := &a.nodes[id]
	sym := n.symbol

	cand := a.nodes[n.parent].suffix
	for {
		if t, ok := a.nodes[cand].next[sym]; ok && t != id {
			n.suffix = t
			break
		}
		if cand == root {
			n.suffix = root
			break
		}
		cand = a.nodes[cand].suffix
	}

	u := n.suffix
	if a.nodes[u].terminal {
		n.output = u
	} else {
		n.output = a.nodes[u].output
	}

	if u == root {
		return
	}
	for r, t := range a.nodes[u].next {
		if _, ok := n.next[r]; !ok {
			n.next[r] = t
		}
	}
}
