package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/fixture"
	"github.com/jacentio/cradleconf/provider"
	"github.com/jacentio/cradleconf/roundtrip"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Verify every configuration document in dir round-trips",
		Long: `Loads the document of every known configuration kind from dir,
decodes it strictly and checks that serializing and deserializing it again
yields the same value. dir defaults to ` + fixture.DefaultDir + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := fixture.DefaultDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), provider.NewDir(dir, a.logger), cradle.DefaultRegistry(), a.logger)
		},
	}
}

func runCheck(ctx context.Context, out io.Writer, p provider.Provider, reg *cradle.Registry, logger *zap.Logger) error {
	v := roundtrip.New(codec.JSON{})
	kinds := reg.All()

	failed := 0
	for _, kind := range kinds {
		if err := checkKind(ctx, p, v, kind); err != nil {
			failed++
			logger.Debug("configuration check failed", zap.String("kind", kind.ID), zap.Error(err))
			fmt.Fprintf(out, "FAIL %s: %v\n", kind.ID, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", kind.ID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configurations failed", failed, len(kinds))
	}
	return nil
}

func checkKind(ctx context.Context, p provider.Provider, v *roundtrip.Verifier, kind cradle.Kind) error {
	rec := kind.New()
	if err := p.Load(ctx, kind.ID, rec); err != nil {
		return err
	}
	return v.RoundTrip(rec, kind.New())
}
