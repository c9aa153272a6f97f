package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/capbudget/internal/config"
	"github.com/cleared-dev/capbudget/internal/scrape"
)

type scrapeFlags struct {
	output      string
	fiscalYear  string
	onError     string
	xlsx        string
	errorReport string
	extensions  []string
	strict      bool
}

func newScrapeCommand(root *rootOptions) *cobra.Command {
	var f scrapeFlags

	cmd := &cobra.Command{
		Use:   "scrape <input_dir>",
		Short: "Convert every report in a directory into one JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			absDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runScrape(ctx, cmd, root, cfg, absDir, f.strict)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output JSON path (default <input_dir>/../<fiscal_year>.json)")
	cmd.Flags().StringVar(&f.fiscalYear, "fiscal-year", "", "fiscal year stamped on every record (default input directory name)")
	cmd.Flags().StringVar(&f.onError, "on-error", "", "abort, skip-file or skip-line")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "also write a spreadsheet to this path")
	cmd.Flags().StringVar(&f.errorReport, "error-report", "", "append unparseable lines to this CSV")
	cmd.Flags().StringSliceVar(&f.extensions, "ext", nil, "report file extensions to read (default from config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "exit non-zero when any line was skipped")

	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f *scrapeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("fiscal-year") {
		cfg.FiscalYear = f.fiscalYear
	}
	if flags.Changed("on-error") {
		cfg.OnError = config.ErrorPolicy(f.onError)
	}
	if flags.Changed("xlsx") {
		cfg.XLSX = f.xlsx
	}
	if flags.Changed("error-report") {
		cfg.ErrorReport = f.errorReport
	}
	if flags.Changed("ext") {
		cfg.Extensions = f.extensions
	}
	return cfg.Validate()
}

func runScrape(ctx context.Context, cmd *cobra.Command, root *rootOptions, cfg *config.Config, inputDir string, strict bool) error {
	logger, err := root.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	runner := scrape.NewRunner(cfg, logger)
	sum, err := runner.Run(ctx, inputDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d budget lines from %d files to %s\n", sum.Records, sum.Files, sum.Output)
	if cfg.XLSX != "" {
		fmt.Fprintf(out, "Wrote spreadsheet to %s\n", cfg.XLSX)
	}
	if n := len(sum.Errors); n > 0 {
		fmt.Fprintf(out, "%d bad lines, %d files skipped (run %s)\n", n, sum.FilesSkipped, sum.RunID)
		if strict {
			return fmt.Errorf("%d report lines could not be parsed", n)
		}
	}
	return nil
}
