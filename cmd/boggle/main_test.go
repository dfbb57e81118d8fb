package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDict(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0644))
	return path
}

// runApp runs the CLI and captures stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := newApp().Run(append([]string{"boggle"}, args...))

	os.Stdout = old
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func TestScoreDefaultAction(t *testing.T) {
	dict := writeDict(t, "abc", "efg")
	out, err := runApp(t, dict, "abcdefghijklmnop")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnop\t2\n", out)
}

func TestScoreSubcommandWithSize(t *testing.T) {
	dict := writeDict(t, "abc")
	out, err := runApp(t, "--size", "2x2", "score", dict, "abcd")
	require.NoError(t, err)
	assert.Equal(t, "abcd\t1\n", out)
}

func TestScoreErrors(t *testing.T) {
	dict := writeDict(t, "abc")

	_, err := runApp(t, dict)
	assert.Error(t, err, "missing board argument")

	_, err = runApp(t, dict, "ABCDEFGHIJKLMNOP")
	assert.Error(t, err, "uppercase board")

	_, err = runApp(t, filepath.Join(t.TempDir(), "missing.txt"), "abcdefghijklmnop")
	assert.Error(t, err, "missing dictionary")
}

func TestBoundCommand(t *testing.T) {
	dict := writeDict(t, "abc", "efg")
	out, err := runApp(t, "bound", dict, "a b c d e f g h i j k l m n o p")
	require.NoError(t, err)
	assert.Contains(t, out, "\t2\n")
	assert.Contains(t, out, "sum_union=2")
	assert.Contains(t, out, "bailout_cell=-1")
}

func TestBreakCommand(t *testing.T) {
	dict := writeDict(t, "ace", "bdf")
	out, err := runApp(t, "--size", "2x2", "break", "--best", "0", dict, "ab cd ef gh")
	require.NoError(t, err)
	// Boards holding "ace" (aceg, aceh) or "bdf" (bdfg, bdfh) score 1 and
	// survive a zero cutoff.
	assert.Contains(t, out, "\t1\n")
}

func TestCanonCommand(t *testing.T) {
	out, err := runApp(t, "canon", "abcdefghijklmnop")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnop\n", out)

	out, err = runApp(t, "--size", "2x2", "canon", "dcba")
	require.NoError(t, err)
	assert.Equal(t, "abcd\n", out, "dcba rotates 180 degrees to abcd")
}

func TestBadSize(t *testing.T) {
	dict := writeDict(t, "abc")
	_, err := runApp(t, "--size", "9x9", dict, "abcdefghijklmnop")
	assert.Error(t, err)
}
