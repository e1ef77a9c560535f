package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/mdagg/internal/config"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	ConfigFile string
	Verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "mdagg",
		Short: "Aggregate SAML metadata and resolve discovery-name conflicts",
		Long: `mdagg combines SAML metadata files into one aggregate, checks each identity
provider's discovery names, and either flags names that clash between
federations (detect) or prefixes foreign names with a federation code (avoid).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "",
		"config file (default: ./mdagg.yml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"debug logging and stage progress")

	cmd.AddCommand(
		newRunCmd(flags),
		newCheckCmd(flags),
		newDiagramCmd(flags),
		newInitCmd(),
		newServeMCPCmd(flags),
	)
	return cmd
}

// loadConfig reads --config, or mdagg.yml in the working directory.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	if f.ConfigFile != "" {
		return config.LoadFile(f.ConfigFile)
	}
	return config.Load(".")
}

// newLogger writes text logs to w at the configured level, or debug when
// --verbose is set.
func (f *rootFlags) newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if f.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
