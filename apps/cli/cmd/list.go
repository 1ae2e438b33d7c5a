package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [suite...]",
	Short: "List the registered suites and tests",
	Long: `List the registered suites and their tests without running them.

Examples:
  checkrun list
  checkrun list users`,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	reg := suites
	if len(args) > 0 {
		reg = reg.Select(matchSuites(args))
	}

	out := cmd.OutOrStdout()
	for _, s := range reg.Suites() {
		fmt.Fprintf(out, "\n[%d] %s:\n", s.Index, s.Name)
		if len(s.Tests()) == 0 {
			fmt.Fprintf(out, "  (no tests)\n")
		}
		for _, t := range s.Tests() {
			fmt.Fprintf(out, "  - %s\n", t.Name)
		}
	}
	fmt.Fprintf(out, "\n%d suites, %d tests\n", reg.Len(), reg.TestCount())

	return nil
}
