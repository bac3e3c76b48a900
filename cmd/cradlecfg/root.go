package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "cradlecfg <command>",
		Short:        "Check and inspect Cradle configuration documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.buildLogger()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCheckCmd(a), newShowCmd(a))
	return root
}

func (a *app) buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
