/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
)

const readAllQuery = "SELECT * FROM c"

// Container implements docstore.Container on an azcosmos.ContainerClient.
type Container struct {
	container   *azcosmos.ContainerClient
	pkPath      string
	consistency *azcosmos.ConsistencyLevel
	logger      *zap.Logger
}

func (c *Container) ID() string {
	return c.container.ID()
}

func (c *Container) PartitionKeyPath() string {
	return c.pkPath
}

// CreateItem inserts a new JSON item into the given logical partition.
func (c *Container) CreateItem(ctx context.Context, partitionKey string, item []byte) error {
	id, err := docstore.ItemID(item)
	if err != nil {
		return err
	}
	resp, err := c.container.CreateItem(ctx, azcosmos.NewPartitionKeyString(partitionKey), item, nil)
	if err != nil {
		return mapError("item", id, err)
	}
	c.logger.Debug("item created",
		zap.String("container", c.ID()),
		zap.String("id", id),
		zap.Float32("requestCharge", resp.RequestCharge),
	)
	return nil
}

// ReadItem point-reads an item by id and partition key.
func (c *Container) ReadItem(ctx context.Context, id, partitionKey string) ([]byte, error) {
	resp, err := c.container.ReadItem(ctx, azcosmos.NewPartitionKeyString(partitionKey), id, &azcosmos.ItemOptions{
		ConsistencyLevel: c.consistency,
	})
	if err != nil {
		return nil, mapError("item", id, err)
	}
	c.logger.Debug("item read",
		zap.String("container", c.ID()),
		zap.String("id", id),
		zap.Float32("requestCharge", resp.RequestCharge),
	)
	return resp.Value, nil
}

// ReadAllItems returns every item in the container, across partitions.
func (c *Container) ReadAllItems(ctx context.Context) ([][]byte, error) {
	return docstore.CollectPages(ctx, c.pageFunc(&docmodels.QueryParams{Query: readAllQuery}), 0)
}

// QueryItems runs a SQL query and returns every matching item.
func (c *Container) QueryItems(ctx context.Context, params *docmodels.QueryParams) ([][]byte, error) {
	if params == nil {
		params = &docmodels.QueryParams{Query: readAllQuery}
	}
	return docstore.CollectPages(ctx, c.pageFunc(params), params.PageSize)
}

// Stream pages through a query in the background. A nil params streams every item.
func (c *Container) Stream(ctx context.Context, params *docmodels.QueryParams, opts ...docmodels.StreamOption) <-chan docmodels.StreamResult {
	if params == nil {
		params = &docmodels.QueryParams{Query: readAllQuery}
	}
	return docstore.StreamPages(ctx, c.pageFunc(params), isRetryableError, opts...)
}

// pageFunc returns a PageFunc that resumes the query from a continuation token.
// An empty query reads every item of the selected partitions.
func (c *Container) pageFunc(params *docmodels.QueryParams) docstore.PageFunc {
	query := params.Query
	if query == "" {
		query = readAllQuery
	}
	pk := azcosmos.NewPartitionKey()
	if params.PartitionKey != nil {
		pk = azcosmos.NewPartitionKeyString(*params.PartitionKey)
	}
	parameters := make([]azcosmos.QueryParameter, 0, len(params.Parameters))
	for _, p := range params.Parameters {
		parameters = append(parameters, azcosmos.QueryParameter{Name: p.Name, Value: p.Value})
	}

	return func(ctx context.Context, continuation *string, pageSize int32) ([][]byte, *string, error) {
		pager := c.container.NewQueryItemsPager(query, pk, &azcosmos.QueryOptions{
			ConsistencyLevel:  c.consistency,
			QueryParameters:   parameters,
			ContinuationToken: continuation,
			PageSizeHint:      pageSize,
		})
		if !pager.More() {
			return nil, nil, nil
		}
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, nil, mapError("query", query, err)
		}
		c.logger.Debug("query page",
			zap.String("container", c.ID()),
			zap.Int("items", len(resp.Items)),
			zap.Float32("requestCharge", resp.RequestCharge),
		)
		return resp.Items, resp.ContinuationToken, nil
	}
}

var _ docstore.Container = (*Container)(nil)
