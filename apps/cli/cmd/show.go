package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/checkrun/packages/output"
	"github.com/abdul-hamid-achik/checkrun/packages/report"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <report.json|->",
	Short: "Render a saved JSON report",
	Long: `Render a report written by 'checkrun run -o json' in any output format.
Use - to read the report from stdin.

Examples:
  checkrun show report.json
  checkrun show report.json -o junit > report.xml
  checkrun run -o json | checkrun show - -v
  checkrun show report.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: showCommand,
}

var (
	showOutputFlag  string
	showVerboseFlag bool
	showNoColorFlag bool
	showWatchFlag   bool
)

func init() {
	addRenderFlags(showCmd)
	showCmd.Flags().BoolVarP(&showWatchFlag, "watch", "w", false, "Render the report again every time the file is rewritten")
}

// addRenderFlags registers the flags shared by the commands that render a
// stored report.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&showOutputFlag, "output", "o", "console", "Output format: console, json, junit, tap, html")
	cmd.Flags().BoolVarP(&showVerboseFlag, "verbose", "v", false, "Print every suite, test and failing check")
	cmd.Flags().BoolVar(&showNoColorFlag, "no-color", getEnvBool("CHECKRUN_NO_COLOR", false), "Disable colored output (env: CHECKRUN_NO_COLOR)")
}

func showCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	if showWatchFlag && path == "-" {
		return withCode(ExitUsageError, errors.New("--watch needs a report file, not stdin"))
	}

	out := cmd.OutOrStdout()
	if err := showReport(out, cmd.InOrStdin(), path); err != nil {
		return err
	}
	if !showWatchFlag {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "\nWatching %s for changes... (press Ctrl+C to stop)\n", path)
	return watchFile(ctx, path, func() {
		fmt.Fprintf(out, "\n\nReport changed: %s\n\n", path)
		if err := showReport(out, nil, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	})
}

// showReport decodes the report at path, or from stdin when path is "-",
// and renders it to w.
func showReport(w io.Writer, stdin io.Reader, path string) error {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("cannot open report: %w", err)
		}
		defer f.Close()
		in = f
	}

	rep, err := report.Decode(in)
	if err != nil {
		return err
	}
	return renderReport(w, rep)
}

func renderReport(w io.Writer, rep *report.Report) error {
	formatter, err := output.New(showOutputFlag, output.Options{
		Writer:  w,
		Verbose: showVerboseFlag,
		NoColor: showNoColorFlag,
	})
	if err != nil {
		return err
	}

	formatter.FormatHeader(version)
	formatter.FormatReport(rep)
	if err := flush(formatter); err != nil {
		return withCode(ExitFatalError, fmt.Errorf("error writing output: %w", err))
	}
	return nil
}
