package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bond-kaneko/go-calc-watcher/log"
)

// executeCommand runs the CLI with args and returns stdout and stderr
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	// Pin the configuration so a calc.toml on the host cannot leak in
	configPath := filepath.Join(t.TempDir(), "calc.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("color = false\n"), 0644))

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.Execute()
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		_ = log.SetLevel(log.LevelInfo)
	})
	return stdout.String(), stderr.String(), err
}

func TestEval(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "eval", "2 + 3 * 4", "(2 + 3) * 4", "10 / 4")
	require.NoError(t, err)
	assert.Equal(t, "14\n20\n2.5\n", stdout)
}

func TestEvalPrecision(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "eval", "-p", "3", "1 / 3")
	require.NoError(t, err)
	assert.Equal(t, "0.333\n", stdout)
}

func TestEvalFailure(t *testing.T) {
	stdout, stderr, err := executeCommand(t, "", "eval", "1 + 1", "10 / 0", "3")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "2\n", stdout)
	assert.Contains(t, stderr, "cannot divide by zero")
}

func TestEvalLeadingMinus(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "eval", "--", "-3 + 1", "-(2 * 3)")
	require.NoError(t, err)
	assert.Equal(t, "-2\n-6\n", stdout)

	_, _, err = executeCommand(t, "", "eval", "-3 + 1")
	assert.Error(t, err)
}

func TestEvalNeedsArgument(t *testing.T) {
	_, _, err := executeCommand(t, "", "eval")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.calc")
	bad := filepath.Join(dir, "bad.calc")
	require.NoError(t, os.WriteFile(good, []byte("add 10\ndivide 5\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("calc 2 + a\n"), 0644))

	stdout, _, err := executeCommand(t, "", "run", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "= 2")

	stdout, _, err = executeCommand(t, "", "run", good, bad)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stdout, "invalid character in expression")
	assert.Contains(t, stdout, "(1 failed)")

	_, stderr, err := executeCommand(t, "", "run", filepath.Join(dir, "missing.calc"))
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stderr, "failed to open sheet")
}

func TestRunDebugLogsFailedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.calc")
	require.NoError(t, os.WriteFile(path, []byte("add 1\ndivide 0\n"), 0644))

	_, stderr, err := executeCommand(t, "", "run", path)
	assert.ErrorIs(t, err, errFailed)
	assert.NotContains(t, stderr, "line failed")

	_, stderr, err = executeCommand(t, "", "--log-level", "debug", "run", path)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stderr, "[DEBUG] line failed path="+path+" line=2")
	assert.Contains(t, stderr, "cannot divide by zero")
}

func TestRepl(t *testing.T) {
	input := strings.Join([]string{
		"add 10",
		"divide 0",
		"# comment",
		"",
		"divide 5",
		"= (2 + 3) * 4",
		"2 + (3 * 4",
		"result",
		"mul",
		"quit",
		"add 1000",
	}, "\n")

	stdout, _, err := executeCommand(t, input, "repl", "-q")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"10",
		"error: divide: cannot divide by zero",
		"2",
		"20",
		`error: calculate: invalid expression "2+(3*4" at offset 2 (syntax error at offset 2: missing closing parenthesis)`,
		"20",
		"error: mul requires a number",
		"",
	}, "\n"), stdout)
}

func TestReplPrompt(t *testing.T) {
	stdout, _, err := executeCommand(t, "1+1\n", "repl")
	require.NoError(t, err)
	assert.Equal(t, "> 2\n> ", stdout)
}

func TestBadLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "", "eval", "--log-level", "shout", "1")
	assert.Error(t, err)
}
