package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project root, database and config file paths, and every effective setting with overrides applied.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if a.Config.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), settings.AllSettings())
	}

	p := resolveColor(flagColor)
	configState := p.wrap(colorYellow, "✗ not present")
	if _, err := os.Stat(a.Paths.Config); err == nil {
		configState = p.wrap(colorGreen, "✓ loaded")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", p.wrap(colorBold, "⚡ ahoc config"))
	fmt.Fprintf(out, "  Root:       %s\n", a.Paths.Project)
	fmt.Fprintf(out, "  DB:         %s\n", a.DBPath())
	fmt.Fprintf(out, "  Config:     %s %s\n", a.Paths.Config, configState)

	keys := settings.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-16s %v\n", k+":", settings.Get(k))
	}
	return nil
}
