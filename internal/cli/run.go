package cli

import (
	"github.com/spf13/cobra"

	"github.com/BartekS5/dataflow/internal/config"
)

type RunOptions struct {
	Source      string
	Destination string
	Extractor   string
	Sink        string
	LogFile     string
	DryRun      bool
}

func NewRunCmd() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once from source to destination",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			applyFlags(c, cfg, opts)
			return runPipeline(c, cfg, opts.DryRun)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", config.DefaultSource, "Source identifier")
	cmd.Flags().StringVarP(&opts.Destination, "destination", "d", config.DefaultDestination, "Destination identifier")
	cmd.Flags().StringVar(&opts.Extractor, "extractor", config.ExtractorFixture, "Extractor: fixture or mongo")
	cmd.Flags().StringVar(&opts.Sink, "sink", config.SinkLog, "Sink: log, mongo, sql or s3")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Also write log lines to this file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Extract and transform without loading")

	return cmd
}

// applyFlags overrides environment settings with flags the user actually set.
func applyFlags(c *cobra.Command, cfg *config.Config, opts *RunOptions) {
	flags := c.Flags()
	if flags.Changed("source") {
		cfg.Source = opts.Source
	}
	if flags.Changed("destination") {
		cfg.Destination = opts.Destination
	}
	if flags.Changed("extractor") {
		cfg.Extractor = opts.Extractor
	}
	if flags.Changed("sink") {
		cfg.Sink = opts.Sink
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.LogFile
	}
}
