package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/corey/ahoc/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	berrors "go.etcd.io/bbolt/errors"
)

func TestFormatFinding(t *testing.T) {
	f := app.Finding{Path: "a.env", Line: 3, Column: 7, Keyword: "token", Value: "credential"}
	assert.Equal(t, "a.env:3:7: token  credential", formatFinding(f, false))

	colored := formatFinding(f, true)
	assert.Contains(t, colored, colorCyan+"a.env"+colorReset)
	assert.Contains(t, colored, colorBold+"token"+colorReset)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "42", formatValue(42))
	assert.Equal(t, "", formatValue(""))
}

func TestFormatItems(t *testing.T) {
	got := formatItems([]app.Item{{Keyword: "he", Value: 2}, {Keyword: "she", Value: 3}})
	assert.Equal(t, "he\t2\nshe\t3\n", got)
	assert.Equal(t, "", formatItems(nil))
}

func TestFormatStats(t *testing.T) {
	got := formatStats(app.Stats{Dictionary: "d", Policy: "length", Kind: "aho-corasick", Keywords: 4, Nodes: 10, Transitions: 14, Inherited: 5}, false)
	assert.Contains(t, got, "⚡ d\n")
	assert.Contains(t, got, "Kind:         aho-corasick")
	assert.Contains(t, got, "Transitions:  14 (5 inherited)")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "⚡ 3 findings │ 2 files", formatCount(3, 2, false))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, app.Finding{Path: "p", Line: 1, Column: 2, Start: 1, End: 3, Keyword: "k", Value: 5}))
	assert.JSONEq(t, `{"path":"p","line":1,"column":2,"start":1,"end":3,"keyword":"k","value":5}`, buf.String())
}

func TestScanExitCode(t *testing.T) {
	assert.Equal(t, -1, ScanExitCode(errors.New("plain")))
	assert.Equal(t, 1, ScanExitCode(scanExit{code: 1}))
	assert.Equal(t, 2, ScanExitCode(fmt.Errorf("wrapped: %w", scanExit{code: 2, err: errors.New("boom")})))
	assert.Equal(t, "no match", scanExit{code: 1}.Error())
	assert.Equal(t, "boom", scanExit{code: 2, err: errors.New("boom")}.Error())
}

func TestDescribeError(t *testing.T) {
	lock := fmt.Errorf("open store: bbolt open: %w", berrors.ErrTimeout)
	assert.True(t, isDBLockError(lock))
	assert.Contains(t, describeError(lock), "locked by another process")

	unknown := fmt.Errorf("%w: %q", app.ErrUnknownDictionary, "x")
	assert.Contains(t, describeError(unknown), "ahoc dicts")

	assert.Equal(t, "plain", describeError(errors.New("plain")))
}
