/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
)

// Container implements docstore.Container on a single DynamoDB table.
type Container struct {
	api            API
	id             string
	table          string
	pkPath         string
	pkAttr         string
	consistentRead bool
	logger         *zap.Logger
}

func (c *Container) ID() string {
	return c.id
}

func (c *Container) PartitionKeyPath() string {
	return c.pkPath
}

// TableName returns the backing table.
func (c *Container) TableName() string {
	return c.table
}

// CreateItem puts a new item, failing if the id already exists in its partition.
func (c *Container) CreateItem(ctx context.Context, partitionKey string, item []byte) error {
	id, err := docstore.ItemID(item)
	if err != nil {
		return err
	}
	pk, err := docstore.PartitionKeyValue(item, c.pkPath)
	if err != nil {
		return err
	}
	if pk != partitionKey {
		return docerrs.NewValidationError(c.pkPath, fmt.Sprintf("item value %q does not match partition key %q", pk, partitionKey))
	}

	av, err := jsonToItem(item)
	if err != nil {
		return err
	}

	_, err = c.api.PutItem(ctx, &sdk.PutItemInput{
		TableName:                aws.String(c.table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": docstore.IDField},
	})
	if err != nil {
		return mapError("item", id, err)
	}
	c.logger.Debug("item created", zap.String("table", c.table), zap.String("id", id))
	return nil
}

// ReadItem gets an item by id and partition key.
func (c *Container) ReadItem(ctx context.Context, id, partitionKey string) ([]byte, error) {
	out, err := c.api.GetItem(ctx, &sdk.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            c.key(id, partitionKey),
		ConsistentRead: aws.Bool(c.consistentRead),
	})
	if err != nil {
		return nil, mapError("item", id, err)
	}
	if out.Item == nil {
		return nil, docerrs.NewNotFoundError("item", id)
	}
	return itemToJSON(out.Item)
}

// ReadAllItems scans the whole table.
func (c *Container) ReadAllItems(ctx context.Context) ([][]byte, error) {
	return docstore.CollectPages(ctx, c.scanPages(), 0)
}

// QueryItems executes a PartiQL statement, or a partition Query when the statement is empty.
func (c *Container) QueryItems(ctx context.Context, params *docmodels.QueryParams) ([][]byte, error) {
	fetch, err := c.pageFunc(params)
	if err != nil {
		return nil, err
	}
	var pageSize int32
	if params != nil {
		pageSize = params.PageSize
	}
	return docstore.CollectPages(ctx, fetch, pageSize)
}

// Stream pages through the results in the background. A nil params streams the whole table.
func (c *Container) Stream(ctx context.Context, params *docmodels.QueryParams, opts ...docmodels.StreamOption) <-chan docmodels.StreamResult {
	fetch, err := c.pageFunc(params)
	if err != nil {
		fetch = func(context.Context, *string, int32) ([][]byte, *string, error) {
			return nil, nil, err
		}
	}
	return docstore.StreamPages(ctx, fetch, isRetryableError, opts...)
}

func (c *Container) pageFunc(params *docmodels.QueryParams) (docstore.PageFunc, error) {
	switch {
	case params == nil || (params.Query == "" && params.PartitionKey == nil):
		return c.scanPages(), nil
	case params.Query == "":
		return c.partitionPages(*params.PartitionKey), nil
	default:
		return c.statementPages(params)
	}
}

func (c *Container) key(id, partitionKey string) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		c.pkAttr: &types.AttributeValueMemberS{Value: partitionKey},
	}
	if c.pkAttr != docstore.IDField {
		key[docstore.IDField] = &types.AttributeValueMemberS{Value: id}
	}
	return key
}

// jsonToItem converts a JSON object into DynamoDB attribute values.
func jsonToItem(doc []byte) (map[string]types.AttributeValue, error) {
	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, docerrs.NewValidationError("item", fmt.Sprintf("not a JSON object: %v", err))
	}
	av, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return av, nil
}

// itemToJSON converts DynamoDB attribute values back into a JSON object.
func itemToJSON(item map[string]types.AttributeValue) ([]byte, error) {
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(item, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return json.Marshal(fields)
}

func itemsToJSON(items []map[string]types.AttributeValue) ([][]byte, error) {
	out := make([][]byte, 0, len(items))
	for _, item := range items {
		doc, err := itemToJSON(item)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

var _ docstore.Container = (*Container)(nil)
