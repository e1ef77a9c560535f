package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/mdagg/internal/config"
	"github.com/dusk-indust/mdagg/internal/runner"
)

var errCheckFailed = errors.New("entities with errors found")

func newCheckCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [input...]",
		Short: "Report discovery-name collisions without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Inputs = args
			}
			cfg.Mode = config.ModeDetect

			logger, err := root.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			res, err := runner.Run(cmd.Context(), cfg, runner.Options{Logger: logger, DryRun: true})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Report.Summary())
			if res.Report.Totals.Errors > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
}
