/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docscratch"
	"github.com/suparena/docscratch/config"
	"github.com/suparena/docscratch/docstore"
	"github.com/suparena/docscratch/logging"
	"github.com/suparena/docscratch/scratch"
)

// app holds the flag values and the state shared by the subcommands.
type app struct {
	cfgFile   string
	envFile   string
	backend   string
	verbose   bool
	logFormat string
	output    string

	backends docscratch.Backends
	logger   *zap.Logger
	out      io.Writer
	// status is the exit status reported by commands that log their own failures.
	status int
}

func newApp() *app {
	return &app{
		backends: docscratch.DefaultBackends(),
		logger:   zap.NewNop(),
		out:      os.Stdout,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "docscratch",
		Short: "Scratch requests against a managed document database",
		Long: `docscratch drives a document database through a fixed sequence of requests:
create a database and container, create and read an item, list items, run a
query and fetch the account's readable locations.

Backends: cosmos (Azure Cosmos DB), dynamodb (Amazon DynamoDB) and memory.
Settings are read from an optional YAML file and the environment (COSMOS_DB_*,
DYNAMODB_*, DOCSCRATCH_*), with a .env file loaded when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.verbose, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", "", "env file to load instead of ./.env")
	flags.StringVar(&a.backend, "backend", "", "backend to use: cosmos, dynamodb or memory (default from DOCSCRATCH_BACKEND, else cosmos)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.logFormat, "log-format", logging.FormatConsole, "log format: console or json")
	flags.StringVarP(&a.output, "output", "o", formatJSON, "output format for printed resources: json or yaml")

	root.AddCommand(
		a.runCommand(),
		a.databaseCommand(),
		a.containerCommand(),
		a.itemCommand(),
		a.itemsCommand(),
		a.queryCommand(),
		a.accountCommand(),
		a.versionCommand(),
	)
	return root
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string) int {
	a := newApp()
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		if a.logger.Core().Enabled(zap.ErrorLevel) {
			a.logger.Error(fmt.Sprintf("Error: %v", err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return a.status
}

// loadConfig reads the configuration with the --backend override applied.
func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.cfgFile, a.envFile, config.WithBackend(a.backend))
}

// open loads the configuration and opens the selected backend.
func (a *app) open(ctx context.Context) (*config.Config, docstore.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := a.backends.Open(ctx, cfg.Backend, cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// runner opens the backend and returns a scratch runner configured from it.
func (a *app) runner(ctx context.Context) (*config.Config, *scratch.Runner, docstore.Client, error) {
	cfg, client, err := a.open(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := scratch.OptionsFromConfig(cfg)
	opts.Logger = a.logger
	return cfg, scratch.NewRunner(client, opts), client, nil
}

// container returns a handle to the configured container without creating it.
func (a *app) container(ctx context.Context) (*config.Config, *scratch.Runner, docstore.Container, error) {
	cfg, runner, client, err := a.runner(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := client.Database(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	container, err := db.Container(cfg.Container, cfg.PartitionKeyPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, runner, container, nil
}
