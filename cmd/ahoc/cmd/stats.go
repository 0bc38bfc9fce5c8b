package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dictionary and automaton statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	s, err := a.Stats(a.Config.Dictionary)
	if err != nil {
		return err
	}
	if a.Config.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), s)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatStats(s, resolveColor(flagColor)))
	return nil
}
