package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"

	// suites is the registry the commands operate on, set by Execute.
	suites = registry.New()
)

var rootCmd = &cobra.Command{
	Use:   "checkrun",
	Short: "Register suites, run them, get a report.",
	Long: `checkrun runs suites of tests registered in Go code. Each test body
records checks through an expectation builder; the checks are evaluated once
the body returns and rolled up into a nested pass/fail report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI against reg and exits with the command's exit code.
func Execute(reg *registry.Registry, v, bt string) {
	version = v
	buildTime = bt
	if reg != nil {
		suites = reg
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

// exitError carries the process exit code of a failed command. err may be
// nil when the outcome has already been reported, for example failing tests.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// reportError prints err to stderr and returns the exit code for it. Errors
// without an explicit code come from cobra's flag and argument checks.
func reportError(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
