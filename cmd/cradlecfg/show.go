package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacentio/cradleconf/fixture"
	"github.com/jacentio/cradleconf/provider"
)

type showOptions struct {
	bucket   string
	prefix   string
	region   string
	endpoint string
}

func newShowCmd(a *app) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [dir]",
		Short: "Print the connection settings derived from the configuration",
		Long: `Loads both Cradle configuration documents and prints the settings a
session would be opened with. The password is redacted.

Documents are read from dir (default ` + fixture.DefaultDir + `), or from S3
when --bucket is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.bucket != "" && len(args) == 1 {
				return fmt.Errorf("cannot use a directory argument together with --bucket")
			}

			var p provider.Provider
			if opts.bucket != "" {
				s3p, err := provider.NewS3FromConfig(cmd.Context(), opts.bucket, opts.prefix, opts.region, opts.endpoint, a.logger)
				if err != nil {
					return err
				}
				p = s3p
			} else {
				dir := fixture.DefaultDir
				if len(args) == 1 {
					dir = args[0]
				}
				p = provider.NewDir(dir, a.logger)
			}

			settings, err := provider.LoadSettings(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), settings.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "S3 bucket holding the configuration documents")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "S3 key prefix")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region (default from the environment)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "custom S3 endpoint, enables path-style addressing")
	return cmd
}
