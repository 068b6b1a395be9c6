/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"

	"github.com/suparena/docscratch/docmodels"
)

// Client is the account-level handle of a document database backend.
type Client interface {
	// CreateDatabaseIfNotExists creates the database, or opens it when it already exists.
	CreateDatabaseIfNotExists(ctx context.Context, props docmodels.DatabaseProperties) (Database, error)

	// Database returns a handle to an existing database without a network call.
	Database(id string) (Database, error)

	// AccountInfo fetches the account metadata, including readable locations.
	AccountInfo(ctx context.Context) (*docmodels.AccountInfo, error)
}

// Database is a named collection of containers.
type Database interface {
	ID() string

	// CreateContainerIfNotExists creates the container, or opens it when it already exists.
	CreateContainerIfNotExists(ctx context.Context, props docmodels.ContainerProperties) (Container, error)

	// Container returns a handle to an existing container without a network call.
	Container(id, partitionKeyPath string) (Container, error)
}

// Container is a partitioned collection of JSON items.
type Container interface {
	ID() string

	PartitionKeyPath() string

	CreateItem(ctx context.Context, partitionKey string, item []byte) error

	ReadItem(ctx context.Context, id, partitionKey string) ([]byte, error)

	ReadAllItems(ctx context.Context) ([][]byte, error)

	QueryItems(ctx context.Context, params *docmodels.QueryParams) ([][]byte, error)

	// Stream pages through the query results in the background. A nil params streams every item.
	Stream(ctx context.Context, params *docmodels.QueryParams, opts ...docmodels.StreamOption) <-chan docmodels.StreamResult
}
