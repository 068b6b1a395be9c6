/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docscratch

import (
	"context"

	"go.uber.org/zap"

	"github.com/suparena/docscratch/config"
	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	"github.com/suparena/docscratch/docstore/cosmos"
	"github.com/suparena/docscratch/docstore/ddb"
	"github.com/suparena/docscratch/docstore/mock"
)

// DefaultBackends returns a registry holding the cosmos, dynamodb and memory backends.
func DefaultBackends() Backends {
	b := NewBackends()
	// Names are distinct constants, so registration cannot fail here.
	_ = b.Register(config.BackendCosmos, OpenCosmos)
	_ = b.Register(config.BackendDynamoDB, OpenDynamoDB)
	_ = b.Register(config.BackendMemory, OpenMemory)
	return b
}

// OpenCosmos opens an Azure Cosmos DB client.
func OpenCosmos(_ context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Client, error) {
	client, err := cosmos.NewClient(cosmos.Options{
		ConnectionString: cfg.Cosmos.ConnectionString,
		ConsistencyLevel: cfg.Cosmos.ConsistencyLevel,
		PreferredRegions: cfg.Cosmos.PreferredRegions,
		RequestTimeout:   cfg.Cosmos.RequestTimeout.Std(),
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenDynamoDB opens an Amazon DynamoDB client. The Cosmos request timeout and
// consistency level apply to DynamoDB requests as well.
func OpenDynamoDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Client, error) {
	client, err := ddb.NewClient(ctx, ddb.Options{
		Region:           cfg.DynamoDB.Region,
		Endpoint:         cfg.DynamoDB.Endpoint,
		AccessKey:        cfg.DynamoDB.AccessKey,
		SecretKey:        cfg.DynamoDB.SecretKey,
		RequestTimeout:   cfg.Cosmos.RequestTimeout.Std(),
		ConsistencyLevel: cfg.Cosmos.ConsistencyLevel,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenMemory opens an empty in-memory store.
func OpenMemory(_ context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Client, error) {
	logger.Debug("using in-memory backend")
	return mock.New().WithAccount(docmodels.AccountInfo{
		ID:                "memory",
		ReadableLocations: []docmodels.Location{{Name: "local", Endpoint: "memory://local"}},
		WritableLocations: []docmodels.Location{{Name: "local", Endpoint: "memory://local"}},
		ConsistencyLevel:  cfg.Cosmos.ConsistencyLevel,
	}), nil
}
