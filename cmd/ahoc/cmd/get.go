package cmd

import (
	"errors"
	"fmt"

	"github.com/corey/ahoc/internal/domain/automaton"
	"github.com/spf13/cobra"
)

var getDefault string

var getCmd = &cobra.Command{
	Use:   "get <keyword>",
	Short: "Print the value stored for a keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVar(&getDefault, "default", "", "Print this instead of failing when the keyword is absent")
}

func runGet(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	v, err := a.Lookup(a.Config.Dictionary, args[0])
	if errors.Is(err, automaton.ErrNotFound) && cmd.Flags().Changed("default") {
		fmt.Fprintln(cmd.OutOrStdout(), getDefault)
		return nil
	}
	if err != nil {
		return err
	}
	if a.Config.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"keyword": args[0], "value": v})
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
	return nil
}
