package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/checkrun/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default settings.

The file defaults to .checkrun.yaml in the current directory; a path ending
in .json is written as JSON.

Examples:
  checkrun init
  checkrun init checkrun.json
  checkrun init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFilenames[0]
	if len(args) > 0 {
		configFile = args[0]
	}
	configFile, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	cfg := &config.Config{
		Verbose: config.BoolPtr(true),
		NoColor: config.BoolPtr(false),
		Output:  "console",
		History: "sqlite://.checkrun/history.db",
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return withCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'checkrun run' to execute the registered suites.\n")

	return nil
}
