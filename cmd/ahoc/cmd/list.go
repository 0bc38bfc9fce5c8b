package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/corey/ahoc/internal/domain/automaton"
	"github.com/spf13/cobra"
)

var (
	listWildcard string
	listHow      string
	listKeysOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List keywords, optionally those matching a pattern",
	Long: "Lists keywords in code point order. With a pattern, --wildcard marks a position matching any character and\n" +
		"--how selects exact (same length), at-most (keywords that are prefixes of the pattern) or at-least\n" +
		"(keywords the pattern is a prefix of).",
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listWildcard, "wildcard", "?", "Single-character wildcard in patterns (empty disables)")
	f.StringVar(&listHow, "how", "exact", "Pattern match mode: exact, at-most, at-least")
	f.BoolVarP(&listKeysOnly, "keys", "k", false, "Print keywords only")
}

func parseMatchHow(s string) (automaton.MatchHow, error) {
	switch s {
	case "exact", "":
		return automaton.MatchExactLength, nil
	case "at-most":
		return automaton.MatchAtMostPrefix, nil
	case "at-least":
		return automaton.MatchAtLeastPrefix, nil
	default:
		return 0, fmt.Errorf("unknown --how %q (want exact, at-most or at-least)", s)
	}
}

func parseWildcard(s string) (rune, error) {
	if s == "" {
		return automaton.NoWildcard, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("--wildcard must be a single character, got %q", s)
	}
	return r, nil
}

func runList(cmd *cobra.Command, args []string) error {
	how, err := parseMatchHow(listHow)
	if err != nil {
		return err
	}
	wildcard, err := parseWildcard(listWildcard)
	if err != nil {
		return err
	}
	a, err := loadApp()
	if err != nil {
		return err
	}

	pattern := ""
	if len(args) == 1 {
		pattern = args[0]
	}
	items, err := a.Keywords(a.Config.Dictionary, pattern, wildcard, how)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case a.Config.Format == "json":
		for _, it := range items {
			if err := writeJSON(out, it); err != nil {
				return err
			}
		}
	case listKeysOnly:
		for _, it := range items {
			fmt.Fprintln(out, it.Keyword)
		}
	default:
		fmt.Fprint(out, formatItems(items))
	}
	return nil
}
