package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/capbudget/internal/buildinfo"
	"github.com/cleared-dev/capbudget/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "capbudget",
		Short:   "Convert capital budget commitment plan reports to JSON",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every budget line, project and commitment")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newScrapeCommand(opts))

	return rootCmd
}

// loadConfig reads the config file named by --config. The default file name
// may be absent; an explicitly named file must exist.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(o.configPath)
	}
	return config.LoadOrDefault(o.configPath)
}

func (o *rootOptions) newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	if o.verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "capbudget",
		Level:           lvl,
	}), nil
}
