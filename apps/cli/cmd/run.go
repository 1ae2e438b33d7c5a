package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/checkrun/packages/core/config"
	"github.com/abdul-hamid-achik/checkrun/packages/core/registry"
	"github.com/abdul-hamid-achik/checkrun/packages/core/runner"
	"github.com/abdul-hamid-achik/checkrun/packages/history"
	"github.com/abdul-hamid-achik/checkrun/packages/output"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [suite...]",
	Short: "Run the registered suites",
	Long: `Run every registered suite, or only the suites whose names contain one
of the given arguments (case-insensitive).

Examples:
  checkrun run
  checkrun run users orders
  checkrun run -o junit --output-file report.xml
  checkrun run --history sqlite://.checkrun/history.db

Exit codes:
  0   every suite passed
  1   at least one suite failed
  2   the run itself crashed
  3   configuration error
  64  usage error`,
	RunE: runCommand,
}

var (
	configFlag     string
	outputFlag     string
	outputFileFlag string
	historyFlag    string
	verboseFlag    bool
	quietFlag      bool
	noColorFlag    bool
)

func init() {
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("CHECKRUN_CONFIG", ""), "Path to config file (env: CHECKRUN_CONFIG)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CHECKRUN_OUTPUT", ""), "Output format: console, json, junit, tap, html (env: CHECKRUN_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CHECKRUN_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CHECKRUN_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("CHECKRUN_HISTORY", ""), "Record the run in a SQLite database, e.g. sqlite://history.db (env: CHECKRUN_HISTORY)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("CHECKRUN_VERBOSE", false), "Print every suite, test and failing check (default on unless CI is set) (env: CHECKRUN_VERBOSE)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("CHECKRUN_QUIET", false), "Only print body errors and the summary (env: CHECKRUN_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CHECKRUN_NO_COLOR", false), "Disable colored output (env: CHECKRUN_NO_COLOR)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// runOptions is everything the run command takes from its flags and
// arguments.
type runOptions struct {
	ConfigPath string
	Patterns   []string
	// Overrides holds the settings given on the command line. They take
	// precedence over the config file.
	Overrides *config.Config
}

func runCommand(cmd *cobra.Command, args []string) error {
	opts := runOptions{
		ConfigPath: configFlag,
		Patterns:   args,
		Overrides: &config.Config{
			Output:     outputFlag,
			OutputFile: outputFileFlag,
			History:    historyFlag,
		},
	}
	if cmd.Flags().Changed("verbose") || os.Getenv("CHECKRUN_VERBOSE") != "" {
		opts.Overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if quietFlag {
		opts.Overrides.Verbose = config.BoolPtr(false)
	}
	if noColorFlag {
		opts.Overrides.NoColor = config.BoolPtr(true)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := executeRun(ctx, suites, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if code != ExitSuccess || err != nil {
		return withCode(code, err)
	}
	return nil
}

// executeRun runs the selected suites and returns the process exit code.
// The error is set only for failures that have not been written to the
// output yet.
func executeRun(ctx context.Context, reg *registry.Registry, opts runOptions, stdout, stderr io.Writer) (int, error) {
	fileConfig, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return ExitConfigError, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := fileConfig.Merge(opts.Overrides)

	if len(opts.Patterns) > 0 {
		reg = reg.Select(matchSuites(opts.Patterns))
		if reg.Len() == 0 {
			return ExitUsageError, fmt.Errorf("no suites match %s", strings.Join(opts.Patterns, ", "))
		}
	}

	out := stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return ExitConfigError, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	formatter, err := output.New(cfg.GetOutput(), output.Options{
		Writer:  out,
		Verbose: cfg.GetVerbose(),
		NoColor: cfg.GetNoColor(),
	})
	if err != nil {
		return ExitUsageError, err
	}
	formatter.FormatHeader(version)

	observer, _ := formatter.(runner.Observer)
	rep, runErr := runner.NewRunner(reg, &runner.Config{Observer: observer}).Run(ctx)
	if runErr != nil {
		formatter.FormatError(runErr)
		if err := flush(formatter); err != nil {
			fmt.Fprintf(stderr, "warning: error writing output: %v\n", err)
		}
		return ExitFatalError, nil
	}

	formatter.FormatReport(rep)
	if err := flush(formatter); err != nil {
		return ExitFatalError, fmt.Errorf("error writing output: %w", err)
	}

	if cfg.History != "" {
		if err := recordHistory(ctx, cfg.History, rep); err != nil {
			fmt.Fprintf(stderr, "warning: failed to record run history: %v\n", err)
		}
	}

	if !rep.Pass {
		return ExitTestFailure, nil
	}
	return ExitSuccess, nil
}

// matchSuites keeps suites whose name contains any of patterns.
func matchSuites(patterns []string) func(*registry.Suite) bool {
	return func(s *registry.Suite) bool {
		name := strings.ToLower(s.Name)
		for _, p := range patterns {
			if strings.Contains(name, strings.ToLower(p)) {
				return true
			}
		}
		return false
	}
}

func recordHistory(ctx context.Context, conn string, rep *report.Report) error {
	store, err := history.Open(ctx, conn)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, rep)
}

// flush writes the output of formatters that accumulate results.
func flush(formatter output.Formatter) error {
	if flushable, ok := formatter.(output.Flushable); ok {
		return flushable.Flush()
	}
	return nil
}
