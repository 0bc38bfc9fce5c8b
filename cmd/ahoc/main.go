// ahoc searches files for many keywords at once with an Aho-Corasick
// automaton. Keyword dictionaries live in a bbolt file under .ahoc/.
package main

import (
	"os"

	"github.com/corey/ahoc/cmd/ahoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ScanExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
