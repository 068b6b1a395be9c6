/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
)

// Options configures a Cosmos DB client.
type Options struct {
	// ConnectionString is "AccountEndpoint=...;AccountKey=...;".
	ConnectionString string
	// ConsistencyLevel is applied to reads and queries; empty uses the account default.
	ConsistencyLevel string
	// PreferredRegions orders the regions the SDK routes requests to.
	PreferredRegions []string
	// RequestTimeout bounds each try of a request; zero keeps the SDK default.
	RequestTimeout time.Duration
	// MaxRetries overrides the SDK retry count; zero keeps the default, negative disables retries.
	MaxRetries int32
	// Transport replaces the HTTP transport, mainly for tests.
	Transport policy.Transporter
	Logger    *zap.Logger
}

// Client implements docstore.Client on an azcosmos.Client.
type Client struct {
	client      *azcosmos.Client
	account     *accountClient
	consistency *azcosmos.ConsistencyLevel
	logger      *zap.Logger
}

// NewClient builds a Cosmos DB client from a connection string.
func NewClient(opts Options) (*Client, error) {
	if opts.ConnectionString == "" {
		return nil, docerrs.NewValidationError("connectionString", "is required")
	}
	cs, err := ParseConnectionString(opts.ConnectionString)
	if err != nil {
		return nil, err
	}
	consistency, err := parseConsistencyLevel(opts.ConsistencyLevel)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := azcore.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries: opts.MaxRetries,
			TryTimeout: opts.RequestTimeout,
		},
		Transport: opts.Transport,
	}

	client, err := azcosmos.NewClientFromConnectionString(opts.ConnectionString, &azcosmos.ClientOptions{
		ClientOptions:    clientOpts,
		PreferredRegions: opts.PreferredRegions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Cosmos DB client: %w", err)
	}

	account, err := newAccountClient(cs, &clientOpts)
	if err != nil {
		return nil, err
	}

	logger.Info("Cosmos DB client initialized",
		zap.String("endpoint", cs.Endpoint),
		zap.Strings("preferredRegions", opts.PreferredRegions),
		zap.String("consistencyLevel", opts.ConsistencyLevel),
		zap.Duration("requestTimeout", opts.RequestTimeout),
	)

	return &Client{
		client:      client,
		account:     account,
		consistency: consistency,
		logger:      logger,
	}, nil
}

// Endpoint returns the account endpoint.
func (c *Client) Endpoint() string {
	return c.client.Endpoint()
}

// CreateDatabaseIfNotExists creates the database, treating a conflict as success.
func (c *Client) CreateDatabaseIfNotExists(ctx context.Context, props docmodels.DatabaseProperties) (docstore.Database, error) {
	if props.ID == "" {
		return nil, docerrs.NewValidationError("id", "database id is required")
	}

	_, err := c.client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: props.ID}, nil)
	switch {
	case err == nil:
		c.logger.Debug("database created", zap.String("database", props.ID))
	case statusCode(err) == http.StatusConflict:
		c.logger.Debug("database already exists", zap.String("database", props.ID))
	default:
		return nil, mapError("database", props.ID, err)
	}
	return c.Database(props.ID)
}

// Database returns a handle to the named database.
func (c *Client) Database(id string) (docstore.Database, error) {
	db, err := c.client.NewDatabase(id)
	if err != nil {
		return nil, fmt.Errorf("database %q: %w", id, err)
	}
	return &Database{db: db, parent: c}, nil
}

// AccountInfo fetches the database account properties.
func (c *Client) AccountInfo(ctx context.Context) (*docmodels.AccountInfo, error) {
	info, err := c.account.get(ctx)
	if err != nil {
		return nil, mapError("account", c.account.endpoint, err)
	}
	return info, nil
}

// Database implements docstore.Database on an azcosmos.DatabaseClient.
type Database struct {
	db     *azcosmos.DatabaseClient
	parent *Client
}

func (d *Database) ID() string {
	return d.db.ID()
}

// CreateContainerIfNotExists creates the container, treating a conflict as success.
func (d *Database) CreateContainerIfNotExists(ctx context.Context, props docmodels.ContainerProperties) (docstore.Container, error) {
	if props.ID == "" {
		return nil, docerrs.NewValidationError("id", "container id is required")
	}
	if _, err := docstore.FieldName(props.PartitionKeyPath); err != nil {
		return nil, err
	}

	var opts *azcosmos.CreateContainerOptions
	if props.Throughput != nil {
		tp, err := throughputProperties(*props.Throughput)
		if err != nil {
			return nil, err
		}
		opts = &azcosmos.CreateContainerOptions{ThroughputProperties: &tp}
	}

	_, err := d.db.CreateContainer(ctx, azcosmos.ContainerProperties{
		ID: props.ID,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{props.PartitionKeyPath},
		},
	}, opts)
	switch {
	case err == nil:
		d.parent.logger.Debug("container created", zap.String("database", d.ID()), zap.String("container", props.ID))
	case statusCode(err) == http.StatusConflict:
		d.parent.logger.Debug("container already exists", zap.String("database", d.ID()), zap.String("container", props.ID))
	default:
		return nil, mapError("container", props.ID, err)
	}
	return d.Container(props.ID, props.PartitionKeyPath)
}

// Container returns a handle to the named container.
func (d *Database) Container(id, partitionKeyPath string) (docstore.Container, error) {
	if _, err := docstore.FieldName(partitionKeyPath); err != nil {
		return nil, err
	}
	container, err := d.db.NewContainer(id)
	if err != nil {
		return nil, fmt.Errorf("container %q: %w", id, err)
	}
	return &Container{
		container:   container,
		pkPath:      partitionKeyPath,
		consistency: d.parent.consistency,
		logger:      d.parent.logger,
	}, nil
}

func throughputProperties(t docmodels.Throughput) (azcosmos.ThroughputProperties, error) {
	if t.MaxThroughput <= 0 {
		return azcosmos.ThroughputProperties{}, docerrs.NewValidationError("maxThroughput", "must be positive")
	}
	if t.Autoscale {
		return azcosmos.NewAutoscaleThroughputProperties(t.MaxThroughput), nil
	}
	return azcosmos.NewManualThroughputProperties(t.MaxThroughput), nil
}

func parseConsistencyLevel(level string) (*azcosmos.ConsistencyLevel, error) {
	var cl azcosmos.ConsistencyLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return nil, nil
	case "strong":
		cl = azcosmos.ConsistencyLevelStrong
	case "boundedstaleness", "bounded_staleness":
		cl = azcosmos.ConsistencyLevelBoundedStaleness
	case "session":
		cl = azcosmos.ConsistencyLevelSession
	case "consistentprefix", "consistent_prefix":
		cl = azcosmos.ConsistencyLevelConsistentPrefix
	case "eventual":
		cl = azcosmos.ConsistencyLevelEventual
	default:
		return nil, docerrs.NewValidationError("consistencyLevel", fmt.Sprintf("unknown level %q", level))
	}
	return &cl, nil
}

var (
	_ docstore.Client   = (*Client)(nil)
	_ docstore.Database = (*Database)(nil)
)
