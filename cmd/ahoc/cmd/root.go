package cmd

import (
	"fmt"
	"os"

	"github.com/corey/ahoc/internal/app"
	"github.com/corey/ahoc/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagDict     string
	flagDB       string
	flagPolicy   string
	flagLogLevel string
	flagFormat   string
	flagColor    string
)

// settings layers flags over the environment, .ahoc/config.yaml and defaults.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:           "ahoc",
	Short:         "ahoc — multi-keyword search with Aho-Corasick automata",
	Long:          "Keeps keyword dictionaries in .ahoc/ahoc.db and reports every occurrence of every keyword in files, trees or stdin in a single pass.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// loadApp resolves configuration, sets up logging and returns the project's App.
func loadApp() (*app.App, error) {
	root := projectRoot()
	cfg, err := app.LoadConfig(settings, app.NewPaths(root))
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(os.Stderr, "text", cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return app.New(root, cfg)
}

// Execute runs the root command and prints any error worth reporting.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && ScanExitCode(err) != 1 {
		fmt.Fprintf(os.Stderr, "error: %s\n", describeError(err))
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDict, "dict", "d", "", "Dictionary name (config key: dictionary)")
	pf.StringVar(&flagDB, "db", "", "Database file (default .ahoc/ahoc.db)")
	pf.StringVar(&flagPolicy, "policy", "", "Value policy for new dictionaries: any, ints, length")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagFormat, "format", "", "Output format: text, json")
	pf.StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")

	for key, name := range map[string]string{
		"dictionary": "dict",
		"db":         "db",
		"policy":     "policy",
		"log_level":  "log-level",
		"format":     "format",
	} {
		if err := settings.BindPFlag(key, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dictsCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(configCmd)
}
