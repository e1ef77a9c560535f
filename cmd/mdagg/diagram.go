package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/mdagg/internal/entity"
	"github.com/dusk-indust/mdagg/internal/metadata"
	"github.com/dusk-indust/mdagg/internal/report"
)

func newDiagramCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "diagram [input...]",
		Short: "Print a Mermaid diagram of discovery-name clashes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			inputs := cfg.Inputs
			if len(args) > 0 {
				inputs = args
			}
			records, err := loadRecords(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Mermaid(records))
			return nil
		},
	}
}

func loadRecords(ctx context.Context, inputs []string) ([]*entity.Record, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("usage: mdagg diagram <input...>")
	}
	docs, err := metadata.LoadAll(ctx, inputs)
	if err != nil {
		return nil, err
	}
	var records []*entity.Record
	for _, d := range docs {
		records = append(records, d.Records()...)
	}
	return records, nil
}
