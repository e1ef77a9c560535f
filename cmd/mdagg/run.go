package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/mdagg/internal/config"
	"github.com/dusk-indust/mdagg/internal/pipeline"
	"github.com/dusk-indust/mdagg/internal/runner"
)

type runFlags struct {
	Inputs        []string
	Output        string
	Report        string
	Mode          string
	HomeAuthority string
	KeepErrors    bool
	DryRun        bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [input...]",
		Short: "Process metadata and write the aggregate",
		Long: `Run loads every input, processes its entities through the configured
stages and writes the resulting aggregate and JSON report.

Inputs named on the command line replace those in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg, args)

			logger, err := root.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := runner.Options{Logger: logger, DryRun: flags.DryRun}
			if root.Verbose {
				opts.OnProgress = func(ev pipeline.ProgressEvent) {
					fmt.Fprintln(cmd.ErrOrStderr(), pipeline.FormatProgress(ev))
				}
			}

			res, err := runner.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}

			if flags.DryRun || cfg.Output == "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Report.Summary())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d of %d entities)\n",
				cfg.Output, len(res.Kept), len(res.All))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.Inputs, "input", "i", nil, "metadata file to read (repeatable)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "aggregate output file")
	cmd.Flags().StringVar(&flags.Report, "report", "", "JSON report file")
	cmd.Flags().StringVarP(&flags.Mode, "mode", "m", "", "conflict handling: detect, avoid or none")
	cmd.Flags().StringVar(&flags.HomeAuthority, "home-authority", "", "registration authority whose names are preserved in avoid mode")
	cmd.Flags().BoolVar(&flags.KeepErrors, "keep-errors", false, "keep entities that carry errors in the output")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "print the summary instead of writing files")
	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) {
	changed := cmd.Flags().Changed
	if changed("input") || len(args) > 0 {
		cfg.Inputs = append(append([]string{}, f.Inputs...), args...)
	}
	if changed("output") {
		cfg.Output = f.Output
	}
	if changed("report") {
		cfg.Report = f.Report
	}
	if changed("mode") {
		cfg.Mode = config.Mode(f.Mode)
	}
	if changed("home-authority") {
		cfg.HomeAuthority = f.HomeAuthority
	}
	if changed("keep-errors") {
		drop := !f.KeepErrors
		cfg.DropErrors = &drop
	}
}
