/*
Package docscratch drives a managed document database through a short
demonstration sequence: create a database and a container, insert and read an
item, list and query items, and fetch the account's locations.

Backends are opened by name through a Backends registry:
  - cosmos: Azure Cosmos DB through azcosmos
  - dynamodb: Amazon DynamoDB through aws-sdk-go-v2
  - memory: an in-process store for offline runs and tests

Basic Usage:

	cfg, err := config.Load("", "")
	if err != nil {
	    return err
	}
	client, err := docscratch.DefaultBackends().Open(ctx, cfg.Backend, cfg, logger)
	if err != nil {
	    return err
	}
	opts := scratch.OptionsFromConfig(cfg)
	opts.Logger = logger
	os.Exit(scratch.Main(ctx, logger, scratch.NewRunner(client, opts).Run))

The docscratch command in cmd/docscratch wraps the same steps as subcommands.
*/
package docscratch
