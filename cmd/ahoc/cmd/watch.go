package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/ahoc/internal/app"
	"github.com/corey/ahoc/internal/logging"
	"github.com/spf13/cobra"
)

var watchLongest bool

var watchCmd = &cobra.Command{
	Use:   "watch [path ...]",
	Short: "Scan paths, then rescan whatever changes",
	Long: "Scans files and trees once, then rescans each file as it changes. Editing the dictionary\n" +
		"(ahoc add/remove from another terminal) reloads it and rescans everything. Stop with Ctrl-C.",
	Args: cobra.ArbitraryArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchLongest, "longest", "L", false, "Report only leftmost-longest non-overlapping occurrences")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	p := resolveColor(flagColor)
	opts := app.ScanOptions{Longest: watchLongest}

	err = a.Watch(ctx, a.Config.Dictionary, args, opts, func(path string, findings []app.Finding) {
		if a.Config.Format == "json" {
			if len(findings) == 0 {
				writeJSON(out, map[string]any{"path": path, "clean": true})
				return
			}
			for _, f := range findings {
				writeJSON(out, f)
			}
			return
		}
		if len(findings) == 0 {
			fmt.Fprintf(out, "%s: %s\n", p.wrap(colorCyan, path), p.wrap(colorGreen, "clean"))
			return
		}
		for _, f := range findings {
			fmt.Fprintln(out, formatFinding(f, p))
		}
	})
	if err != nil {
		return err
	}
	logging.Info().Msg("watch stopped")
	return nil
}
