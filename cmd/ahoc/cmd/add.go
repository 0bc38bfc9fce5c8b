package cmd

import (
	"fmt"

	"github.com/corey/ahoc/internal/ports"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <keyword> [value]",
	Short: "Add a keyword to a dictionary",
	Long: "Adds or updates a keyword. The dictionary is created with the configured policy on first use.\n" +
		"Policy any needs a value; ints takes an optional integer; length takes no value.",
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	entry := ports.Entry{Keyword: args[0]}
	if len(args) == 2 {
		entry.Value = args[1]
		entry.HasValue = true
	}

	dict := a.Config.Dictionary
	added, err := a.AddKeyword(dict, entry)
	if err != nil {
		return err
	}
	switch {
	case entry.Keyword == "":
		fmt.Fprintln(cmd.OutOrStdout(), "empty keyword ignored")
	case added:
		fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s\n", entry.Keyword, dict)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "updated %q in %s\n", entry.Keyword, dict)
	}
	return nil
}
