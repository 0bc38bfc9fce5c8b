package automaton

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	aho "github.com/petar-dambovaliev/aho-corasick"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Differential check against petar-dambovaliev/aho-corasick
// Expectation: on ASCII input (byte offsets == rune offsets) the overlapping
// scan and leftmost-longest selection agree with an independent automaton.
// =============================================================================

type occurrence struct {
	Start, End int // End exclusive
	Keyword    string
}

func sortOccurrences(occ []occurrence) {
	slices.SortFunc(occ, func(x, y occurrence) int {
		if c := cmp.Compare(x.Start, y.Start); c != 0 {
			return c
		}
		return cmp.Compare(x.End, y.End)
	})
}

func randomDictionary(rng *rand.Rand, alphabet []rune) []string {
	seen := map[string]bool{}
	var words []string
	count := 1 + rng.IntN(20)
	for i := 0; i < count; i++ {
		w := randomWord(rng, alphabet, 1, 6)
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

func TestOracle_OverlappingAgrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	alphabet := []rune("abcx")

	for round := 0; round < 100; round++ {
		words := randomDictionary(rng, alphabet)
		text := randomWord(rng, alphabet, 1, 120)

		ours := build(t, words...)
		got, err := ours.Search(text)
		require.NoError(t, err)
		var have []occurrence
		for _, m := range got {
			have = append(have, occurrence{m.Start, m.End + 1, m.Keyword})
		}

		builder := aho.NewAhoCorasickBuilder(aho.Opts{DFA: true})
		ref := builder.Build(words)
		var want []occurrence
		it := ref.IterOverlappingByte([]byte(text))
		for next := it.Next(); next != nil; next = it.Next() {
			want = append(want, occurrence{next.Start(), next.End(), words[next.Pattern()]})
		}

		sortOccurrences(have)
		sortOccurrences(want)
		require.Equal(t, want, have, "words=%v text=%q", words, text)
	}
}

func TestOracle_LeftmostLongestAgrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	alphabet := []rune("abx")

	for round := 0; round < 100; round++ {
		words := randomDictionary(rng, alphabet)
		text := randomWord(rng, alphabet, 1, 120)

		ours := build(t, words...)
		got, err := ours.FindLongest(text)
		require.NoError(t, err)
		var have []occurrence
		for _, m := range got {
			have = append(have, occurrence{m.Start, m.End + 1, m.Keyword})
		}

		builder := aho.NewAhoCorasickBuilder(aho.Opts{MatchKind: aho.LeftMostLongestMatch})
		ref := builder.Build(words)
		var want []occurrence
		for _, m := range ref.FindAll(text) {
			want = append(want, occurrence{m.Start(), m.End(), words[m.Pattern()]})
		}

		require.Equal(t, want, have, "words=%v text=%q", words, text)
	}
}
