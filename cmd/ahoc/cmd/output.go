package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/ahoc/internal/app"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// palette applies colors only when enabled.
type palette bool

func (p palette) wrap(color, s string) string {
	if !p {
		return s
	}
	return color + s + colorReset
}

// isStdoutTTY returns true if stdout is connected to a terminal.
func isStdoutTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isStdinPipe returns true if stdin is a pipe (not a terminal).
func isStdinPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// resolveColor determines whether to use color output from --color and TTY status.
func resolveColor(colorFlag string) palette {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return palette(isStdoutTTY())
	}
}

// formatValue renders a stored value; nil prints as "-".
func formatValue(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

// formatFinding renders one finding grep-style:
//
//	path:line:column: keyword  value
func formatFinding(f app.Finding, p palette) string {
	return fmt.Sprintf("%s:%d:%d: %s  %s",
		p.wrap(colorCyan, f.Path), f.Line, f.Column,
		p.wrap(colorBold, f.Keyword), p.wrap(colorGray, formatValue(f.Value)))
}

// formatCount renders the --count summary.
func formatCount(findings, files int, p palette) string {
	return fmt.Sprintf("%s │ %d files", p.wrap(colorBold, fmt.Sprintf("⚡ %d findings", findings)), files)
}

// formatItems renders a keyword listing, one "keyword<TAB>value" per line.
func formatItems(items []app.Item) string {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "%s\t%s\n", it.Keyword, formatValue(it.Value))
	}
	return sb.String()
}

// formatStats renders dictionary statistics.
func formatStats(s app.Stats, p palette) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", p.wrap(colorBold, "⚡ "+s.Dictionary))
	fmt.Fprintf(&sb, "  Policy:       %s\n", s.Policy)
	fmt.Fprintf(&sb, "  Kind:         %s\n", s.Kind)
	fmt.Fprintf(&sb, "  Keywords:     %d\n", s.Keywords)
	fmt.Fprintf(&sb, "  Longest:      %d\n", s.LongestWord)
	fmt.Fprintf(&sb, "  Nodes:        %d\n", s.Nodes)
	fmt.Fprintf(&sb, "  Transitions:  %d (%d inherited)\n", s.Transitions, s.Inherited)
	fmt.Fprintf(&sb, "  Fingerprint:  %s\n", p.wrap(colorGray, s.Fingerprint))
	return sb.String()
}

// writeJSON writes v as one line of JSON.
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
