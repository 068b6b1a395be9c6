/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scratch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suparena/docscratch/config"
	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
	"github.com/suparena/docscratch/itemstore"
	"github.com/suparena/docscratch/models"
)

// Options are the arguments of the demonstration sequence.
type Options struct {
	DatabaseID       string
	Container        docmodels.ContainerProperties
	SampleItem       models.Product
	ReadItemID       string
	ReadPartitionKey string
	Query            *docmodels.QueryParams
	// SkipCreate leaves out the sample item insert.
	SkipCreate bool
	Logger     *zap.Logger
}

// DefaultOptions returns the cosmicworks sequence.
func DefaultOptions() Options {
	query, params := config.DefaultQuery(config.BackendCosmos)
	pk := "bikes"
	opts := Options{
		DatabaseID: "cosmicworks",
		Container: docmodels.ContainerProperties{
			ID:               "products",
			PartitionKeyPath: "/categoryId",
			Throughput:       &docmodels.Throughput{MaxThroughput: 1000, Autoscale: true},
		},
		SampleItem:       models.SampleProduct(),
		ReadItemID:       "item1",
		ReadPartitionKey: "bikes",
		Query:            &docmodels.QueryParams{Query: query, PartitionKey: &pk},
	}
	for _, p := range params {
		opts.Query.Parameters = append(opts.Query.Parameters, docmodels.QueryParameter{Name: p.Name, Value: p.Value})
	}
	return opts
}

// OptionsFromConfig derives the sequence arguments from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.DatabaseID = cfg.Database
	opts.Container = cfg.ContainerProperties()
	opts.ReadItemID = cfg.SampleItemID
	opts.ReadPartitionKey = cfg.SamplePartitionKey
	opts.SampleItem.ID = cfg.SampleItemID
	opts.SampleItem.CategoryID = cfg.SamplePartitionKey
	opts.Query = cfg.QueryParams()
	return opts
}

// Runner executes the sequence steps against one client.
type Runner struct {
	client docstore.Client
	opts   Options
	logger *zap.Logger
}

// NewRunner returns a runner for the client.
func NewRunner(client docstore.Client, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{client: client, opts: opts, logger: logger}
}

// EnsureDatabase creates the database if it does not exist.
func (r *Runner) EnsureDatabase(ctx context.Context) (docstore.Database, error) {
	db, err := r.client.CreateDatabaseIfNotExists(ctx, docmodels.DatabaseProperties{ID: r.opts.DatabaseID})
	if err != nil {
		return nil, fmt.Errorf("create database %q: %w", r.opts.DatabaseID, err)
	}
	r.logger.Info(fmt.Sprintf("Database '%s' is ready.", r.opts.DatabaseID))
	return db, nil
}

// EnsureContainer creates the container if it does not exist.
func (r *Runner) EnsureContainer(ctx context.Context, db docstore.Database) (docstore.Container, error) {
	props := r.opts.Container
	container, err := db.CreateContainerIfNotExists(ctx, props)
	if err != nil {
		return nil, fmt.Errorf("create container %q: %w", props.ID, err)
	}
	fields := []zap.Field{zap.String("partitionKeyPath", props.PartitionKeyPath)}
	if props.Throughput != nil {
		fields = append(fields,
			zap.Int32("maxThroughput", props.Throughput.MaxThroughput),
			zap.Bool("autoscale", props.Throughput.Autoscale))
	}
	r.logger.Info(fmt.Sprintf("Container '%s' is ready.", props.ID), fields...)
	return container, nil
}

// CreateSampleItem inserts the sample item. An item that already exists is
// logged and left in place.
func (r *Runner) CreateSampleItem(ctx context.Context, container docstore.Container) error {
	store, err := r.products(container)
	if err != nil {
		return err
	}
	id, err := store.Put(ctx, r.opts.SampleItem)
	switch {
	case docerrs.IsAlreadyExists(err):
		r.logger.Info(fmt.Sprintf("Item already exists: %s", r.opts.SampleItem.ID))
		return nil
	case err != nil:
		return fmt.Errorf("create item %q: %w", r.opts.SampleItem.ID, err)
	}
	r.logger.Info(fmt.Sprintf("Item created: %s", id))
	return nil
}

// ReadItem reads one item by id and partition key.
func (r *Runner) ReadItem(ctx context.Context, container docstore.Container, id, partitionKey string) (*models.Product, error) {
	store, err := r.products(container)
	if err != nil {
		return nil, err
	}
	item, err := store.Get(ctx, id, partitionKey)
	if err != nil {
		return nil, fmt.Errorf("read item %q: %w", id, err)
	}
	r.logger.Info(fmt.Sprintf("Item read: %s", item.ID))
	return item, nil
}

// ReadItems lists every item in the container.
func (r *Runner) ReadItems(ctx context.Context, container docstore.Container) ([]models.Product, error) {
	store, err := r.products(container)
	if err != nil {
		return nil, err
	}
	items, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all items: %w", err)
	}
	r.logger.Info("Reading all items:", zap.Int("count", len(items)))
	r.logItems(items)
	return items, nil
}

// QueryItems runs the query against the container.
func (r *Runner) QueryItems(ctx context.Context, container docstore.Container, params *docmodels.QueryParams) ([]models.Product, error) {
	store, err := r.products(container)
	if err != nil {
		return nil, err
	}
	items, err := store.Query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	var query string
	if params != nil {
		query = params.Query
	}
	r.logger.Info("Reading items by query:", zap.String("query", query), zap.Int("count", len(items)))
	r.logItems(items)
	return items, nil
}

// AccountDetails fetches the account metadata.
func (r *Runner) AccountDetails(ctx context.Context) (*docmodels.AccountInfo, error) {
	info, err := r.client.AccountInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("get account details: %w", err)
	}
	r.logger.Info(fmt.Sprintf("Account readable locations: %v", info.ReadableLocationNames()),
		zap.String("consistencyLevel", info.ConsistencyLevel))
	return info, nil
}

// Run executes the whole sequence, stopping at the first failure.
func (r *Runner) Run(ctx context.Context) error {
	db, err := r.EnsureDatabase(ctx)
	if err != nil {
		return err
	}
	container, err := r.EnsureContainer(ctx, db)
	if err != nil {
		return err
	}
	if !r.opts.SkipCreate {
		if err := r.CreateSampleItem(ctx, container); err != nil {
			return err
		}
	}
	if _, err := r.ReadItem(ctx, container, r.opts.ReadItemID, r.opts.ReadPartitionKey); err != nil {
		return err
	}
	if _, err := r.ReadItems(ctx, container); err != nil {
		return err
	}
	if _, err := r.QueryItems(ctx, container, r.opts.Query); err != nil {
		return err
	}
	if _, err := r.AccountDetails(ctx); err != nil {
		return err
	}
	return nil
}

func (r *Runner) products(container docstore.Container) (*itemstore.Store[models.Product], error) {
	return itemstore.New[models.Product](container, itemstore.WithLogger(r.logger))
}

func (r *Runner) logItems(items []models.Product) {
	for _, item := range items {
		r.logger.Info(fmt.Sprintf("Item: %s", item.ID))
	}
}

// Main runs fn and logs its error once. It returns the process exit status.
func Main(ctx context.Context, logger *zap.Logger, fn func(context.Context) error) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := fn(ctx); err != nil {
		logger.Error(fmt.Sprintf("Error: %v", err), zap.Error(err))
		return 1
	}
	return 0
}
