package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/mdagg/internal/mcptools"
)

func newServeMCPCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve read-only metadata tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr.
			logger, err := root.newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			server := mcptools.NewServer(mcptools.NewService(cfg, logger), version)
			return mcptools.RunStdio(cmd.Context(), server)
		},
	}
}
