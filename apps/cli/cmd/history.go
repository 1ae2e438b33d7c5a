package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/checkrun/packages/core/config"
	"github.com/abdul-hamid-achik/checkrun/packages/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded runs",
	Long: `Browse runs recorded with 'checkrun run --history'. The database is taken
from --db, CHECKRUN_HISTORY or the history key of the config file.

Examples:
  checkrun history list
  checkrun history list --limit 5 --db sqlite://history.db
  checkrun history show 3f2a -o junit`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render a recorded run",
	Long:  "Render a recorded run. The run id may be abbreviated to any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

var (
	historyDBFlag     string
	historyConfigFlag string
	historyLimitFlag  int
)

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBFlag, "db", getEnvString("CHECKRUN_HISTORY", ""), "History database, e.g. sqlite://history.db (env: CHECKRUN_HISTORY)")
	historyCmd.PersistentFlags().StringVar(&historyConfigFlag, "config", getEnvString("CHECKRUN_CONFIG", ""), "Path to config file (env: CHECKRUN_CONFIG)")
	historyListCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Number of runs to show (0 for all)")
	addRenderFlags(historyShowCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

// openHistory opens the history database named by the flags or the config file.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	conn := historyDBFlag
	if conn == "" {
		cfg, err := config.LoadConfig(historyConfigFlag)
		if err != nil {
			return nil, withCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
		}
		conn = cfg.History
	}
	if conn == "" {
		return nil, withCode(ExitConfigError, errors.New("no history database configured (use --db or set history in the config file)"))
	}

	store, err := history.Open(cmd.Context(), conn)
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	return store, nil
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return withCode(ExitFatalError, err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No runs recorded\n")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-24s  %-4s  %-13s  %s\n", "RUN", "STARTED", "PASS", "SUITES", "DURATION")
	for _, e := range entries {
		status := "ok"
		if !e.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%-36s  %-24s  %-4s  %-13s  %.0fms\n",
			e.RunID, e.Name, status, fmt.Sprintf("%d/%d", e.Success, e.Total), e.DurationMs)
	}
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rep, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, history.ErrNotFound) || errors.Is(err, history.ErrAmbiguous) {
			return withCode(ExitUsageError, err)
		}
		return withCode(ExitFatalError, err)
	}
	return renderReport(cmd.OutOrStdout(), rep)
}
