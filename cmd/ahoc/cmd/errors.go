package cmd

import (
	"errors"

	"github.com/corey/ahoc/internal/app"
	berrors "go.etcd.io/bbolt/errors"
)

// scanExit is returned by scan and watch to signal a specific exit code.
// Like grep: 0=found, 1=not found, 2=error.
type scanExit struct {
	code int
	err  error
}

func (e scanExit) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.code == 1:
		return "no match"
	default:
		return ""
	}
}

func (e scanExit) Unwrap() error { return e.err }

// ScanExitCode extracts the exit code from a scanExit error.
// Returns -1 if the error is not a scanExit.
func ScanExitCode(err error) int {
	var se scanExit
	if errors.As(err, &se) {
		return se.code
	}
	return -1
}

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
func isDBLockError(err error) bool {
	return errors.Is(err, berrors.ErrTimeout)
}

// describeError adds actionable guidance to errors users can fix.
func describeError(err error) string {
	switch {
	case isDBLockError(err):
		return "database is locked by another process\n" +
			"  → a long-running ahoc command or another tool has the file open for writing\n" +
			"  → find the process:  ps aux | grep ahoc\n" +
			"  → then retry your command"
	case errors.Is(err, app.ErrUnknownDictionary):
		return err.Error() + "\n  → create it with:  ahoc add --dict NAME KEYWORD [VALUE]\n  → list existing:   ahoc dicts"
	default:
		return err.Error()
	}
}
