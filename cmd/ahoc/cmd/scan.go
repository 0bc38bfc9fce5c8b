package cmd

import (
	"fmt"
	"os"

	"github.com/corey/ahoc/internal/app"
	"github.com/spf13/cobra"
)

var (
	scanLongest bool
	scanCount   bool
	scanQuiet   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path ...]",
	Short: "Report every keyword occurrence in files, trees or stdin",
	Long: "Scans files and directory trees (or stdin when piped, or \"-\") with the dictionary's automaton.\n" +
		"Exit status is 0 when something was found, 1 when nothing was, 2 on error.",
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.BoolVarP(&scanLongest, "longest", "L", false, "Report only leftmost-longest non-overlapping occurrences")
	f.BoolVarP(&scanCount, "count", "c", false, "Print totals only")
	f.BoolVarP(&scanQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return scanExit{code: 2, err: err}
	}
	m, _, err := a.Matcher(a.Config.Dictionary)
	if err != nil {
		return scanExit{code: 2, err: err}
	}

	opts := app.ScanOptions{Longest: scanLongest}
	out := cmd.OutOrStdout()
	p := resolveColor(flagColor)
	total, files := 0, 0

	emit := func(path string, findings []app.Finding) error {
		if len(findings) == 0 {
			return nil
		}
		total += len(findings)
		files++
		if scanQuiet || scanCount {
			return nil
		}
		for _, f := range findings {
			if a.Config.Format == "json" {
				if err := writeJSON(out, f); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(out, formatFinding(f, p))
		}
		return nil
	}

	if len(args) == 0 && isStdinPipe() {
		args = []string{"-"}
	} else if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		if arg != "-" {
			paths = append(paths, arg)
			continue
		}
		findings, err := app.ScanReader(m, "(stdin)", os.Stdin, opts)
		if err != nil {
			return scanExit{code: 2, err: err}
		}
		if err := emit("(stdin)", findings); err != nil {
			return scanExit{code: 2, err: err}
		}
	}
	if len(paths) > 0 {
		if err := a.ScanPaths(cmd.Context(), m, paths, opts, emit); err != nil {
			return scanExit{code: 2, err: err}
		}
	}

	if scanCount && !scanQuiet {
		if a.Config.Format == "json" {
			if err := writeJSON(out, map[string]int{"findings": total, "files": files}); err != nil {
				return scanExit{code: 2, err: err}
			}
		} else {
			fmt.Fprintln(out, formatCount(total, files, p))
		}
	}
	if total == 0 {
		return scanExit{code: 1}
	}
	return nil
}
