/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/docscratch"
)

func (a *app) versionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := docscratch.GetVersionInfo()
			if short {
				_, err := fmt.Fprintln(a.out, info.Version)
				return err
			}
			if cmd.Flags().Changed("output") {
				return a.emit(a.out, info)
			}
			_, err := fmt.Fprintf(a.out, "docscratch version %s\nGit commit: %s\nBuild date: %s\nGo version: %s\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion)
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
