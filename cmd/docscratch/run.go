/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/suparena/docscratch/scratch"
)

func (a *app) runCommand() *cobra.Command {
	var skipCreate bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full scratch sequence",
		Long: `Creates the database and container if needed, creates the sample item,
reads it back, lists all items, runs the configured query and prints the
account's readable locations. The first failing step stops the sequence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.status = scratch.Main(ctx, a.logger, func(ctx context.Context) error {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				client, err := a.backends.Open(ctx, cfg.Backend, cfg, a.logger)
				if err != nil {
					return err
				}
				opts := scratch.OptionsFromConfig(cfg)
				opts.Logger = a.logger
				opts.SkipCreate = skipCreate
				return scratch.NewRunner(client, opts).Run(ctx)
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipCreate, "skip-create", false, "do not create the sample item")
	return cmd
}
