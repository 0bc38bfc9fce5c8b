package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <keyword>...",
	Short: "Remove keywords from a dictionary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	dict := a.Config.Dictionary
	for _, kw := range args {
		found, err := a.RemoveKeyword(dict, kw)
		if err != nil {
			return err
		}
		if found {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %q from %s\n", kw, dict)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%q not in %s\n", kw, dict)
		}
	}
	return nil
}
