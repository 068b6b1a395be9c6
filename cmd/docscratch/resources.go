/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"
)

func (a *app) databaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "database",
		Short: "Manage the database",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the configured database if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, runner, _, err := a.runner(cmd.Context())
			if err != nil {
				return err
			}
			_, err = runner.EnsureDatabase(cmd.Context())
			return err
		},
	})
	return cmd
}

func (a *app) containerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Manage the container",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the configured database and container if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, runner, _, err := a.runner(ctx)
			if err != nil {
				return err
			}
			db, err := runner.EnsureDatabase(ctx)
			if err != nil {
				return err
			}
			_, err = runner.EnsureContainer(ctx, db)
			return err
		},
	})
	return cmd
}

func (a *app) accountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Print the account's locations and consistency level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, runner, _, err := a.runner(cmd.Context())
			if err != nil {
				return err
			}
			info, err := runner.AccountDetails(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(a.out, info)
		},
	}
}
