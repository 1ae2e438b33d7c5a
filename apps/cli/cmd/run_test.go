package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/checkrun/packages/core/config"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/history"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/abdul-hamid-achik/checkrun/packages/selfcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingRegistry() *registry.Registry {
	reg := registry.New()
	selfcheck.Register(reg)
	return reg
}

func failingRegistry() *registry.Registry {
	reg := passingRegistry()
	selfcheck.RegisterFailing(reg)
	return reg
}

// emptyConfig writes an empty config file so runs never pick up a config
// from the working directory.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkrun.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}

func consoleOptions(t *testing.T) runOptions {
	return runOptions{
		ConfigPath: emptyConfig(t),
		Overrides:  &config.Config{Verbose: config.BoolPtr(true), NoColor: config.BoolPtr(true)},
	}
}

func TestExecuteRun_Pass(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code, err := executeRun(context.Background(), passingRegistry(), consoleOptions(t), &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "[1/4]: equality")
	assert.Contains(t, stdout.String(), "PASS\n")
	assert.Empty(t, stderr.String())
}

func TestExecuteRun_Failure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code, err := executeRun(context.Background(), failingRegistry(), consoleOptions(t), &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, stdout.String(), `error: "setup failed; connection refused"`)
	assert.Contains(t, stdout.String(), "FAIL\n")
}

func TestExecuteRun_SelectsSuites(t *testing.T) {
	var stdout bytes.Buffer
	opts := consoleOptions(t)
	opts.Patterns = []string{"EQUAL"}

	code, err := executeRun(context.Background(), failingRegistry(), opts, &stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "[1/1]: equality")
	assert.NotContains(t, stdout.String(), "failing")
}

func TestExecuteRun_NoMatchingSuite(t *testing.T) {
	opts := consoleOptions(t)
	opts.Patterns = []string{"nothing"}

	code, err := executeRun(context.Background(), passingRegistry(), opts, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, ExitUsageError, code)
	assert.EqualError(t, err, "no suites match nothing")
}

func TestExecuteRun_ConfigErrors(t *testing.T) {
	t.Run("invalid config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "checkrun.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output: pdf\n"), 0644))

		code, err := executeRun(context.Background(), passingRegistry(), runOptions{ConfigPath: path}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, ExitConfigError, code)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("missing config file", func(t *testing.T) {
		opts := runOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}

		code, err := executeRun(context.Background(), passingRegistry(), opts, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, ExitConfigError, code)
		assert.Error(t, err)
	})

	t.Run("unknown output flag", func(t *testing.T) {
		opts := runOptions{ConfigPath: emptyConfig(t), Overrides: &config.Config{Output: "pdf"}}

		code, err := executeRun(context.Background(), passingRegistry(), opts, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, ExitUsageError, code)
		assert.ErrorContains(t, err, `unknown output format "pdf"`)
	})
}

func TestExecuteRun_ConfigFileSettings(t *testing.T) {
	dir := t.TempDir()
	reportFile := filepath.Join(dir, "report.json")
	configFile := filepath.Join(dir, "checkrun.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("output: json\noutputFile: "+reportFile+"\n"), 0644))

	var stdout bytes.Buffer
	code, err := executeRun(context.Background(), failingRegistry(), runOptions{ConfigPath: configFile}, &stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ExitTestFailure, code)
	assert.Empty(t, stdout.String())

	f, err := os.Open(reportFile)
	require.NoError(t, err)
	defer f.Close()

	rep, err := report.Decode(f)
	require.NoError(t, err)
	assert.False(t, rep.Pass)
	assert.Equal(t, report.Counts{Success: 4, Failure: 1, Total: 5}, rep.Counts)
}

func TestExecuteRun_RecordsHistory(t *testing.T) {
	conn := "sqlite://" + filepath.Join(t.TempDir(), "history.db")
	opts := consoleOptions(t)
	opts.Overrides.History = conn

	var stderr bytes.Buffer
	code, err := executeRun(context.Background(), passingRegistry(), opts, &bytes.Buffer{}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, stderr.String())

	store, err := history.Open(context.Background(), conn)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Pass)
	assert.Equal(t, 4, entries[0].Total)
}

func TestExecuteRun_HistoryFailureIsAWarning(t *testing.T) {
	opts := consoleOptions(t)
	opts.Overrides.History = "sqlite://" + filepath.Join(emptyConfig(t), "history.db")

	var stderr bytes.Buffer
	code, err := executeRun(context.Background(), passingRegistry(), opts, &bytes.Buffer{}, &stderr)

	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr.String(), "warning: failed to record run history")
}

func TestReportError(t *testing.T) {
	assert.Equal(t, ExitTestFailure, reportError(withCode(ExitTestFailure, nil)))
	assert.Equal(t, ExitConfigError, reportError(withCode(ExitConfigError, errors.New("bad config"))))
	assert.Equal(t, ExitUsageError, reportError(errors.New(`unknown flag: --nope`)))
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := withCode(ExitFatalError, inner)

	assert.EqualError(t, err, "boom")
	assert.ErrorIs(t, err, inner)
	assert.EqualError(t, withCode(ExitTestFailure, nil), "exit status 1")
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CHECKRUN_TEST_STRING", "value")
	t.Setenv("CHECKRUN_TEST_BOOL", "yes")
	t.Setenv("CHECKRUN_TEST_FALSE", "nope")

	assert.Equal(t, "value", getEnvString("CHECKRUN_TEST_STRING", "default"))
	assert.Equal(t, "default", getEnvString("CHECKRUN_TEST_UNSET", "default"))
	assert.True(t, getEnvBool("CHECKRUN_TEST_BOOL", false))
	assert.False(t, getEnvBool("CHECKRUN_TEST_FALSE", true))
	assert.True(t, getEnvBool("CHECKRUN_TEST_UNSET", true))
}
