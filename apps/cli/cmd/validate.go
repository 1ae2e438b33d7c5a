package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/checkrun/packages/core/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config...]",
	Short: "Validate configuration files",
	Long: `Validate configuration files against the checkrun schema without running
anything. Without arguments the config file of the current directory is
checked.

Examples:
  checkrun validate
  checkrun validate ci/checkrun.yaml`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		found := config.FindConfigFile(".")
		if found == "" {
			return withCode(ExitConfigError, errors.New("no config file found"))
		}
		files = []string{found}
	}

	hasErrors := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			err = config.Validate(data)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withCode(ExitConfigError, errors.New("validation failed"))
	}

	return nil
}
