package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dictsCmd = &cobra.Command{
	Use:   "dicts",
	Short: "List dictionaries",
	Args:  cobra.NoArgs,
	RunE:  runDicts,
}

func runDicts(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	names, err := a.Dictionaries()
	if err != nil {
		return err
	}
	if a.Config.Format == "json" {
		if names == nil {
			names = []string{}
		}
		return writeJSON(cmd.OutOrStdout(), names)
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
