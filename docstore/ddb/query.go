/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros replaces {table} and {partitionKey} in a statement; other macros are left untouched.
func expandMacros(statement string, values map[string]string) string {
	return macroPattern.ReplaceAllStringFunc(statement, func(macro string) string {
		key := strings.Trim(macro, "{}")
		if v, ok := values[key]; ok {
			return v
		}
		return macro
	})
}

func (c *Container) statementPages(params *docmodels.QueryParams) (docstore.PageFunc, error) {
	statement := expandMacros(params.Query, map[string]string{
		"table":        c.table,
		"partitionKey": c.pkAttr,
	})

	parameters := make([]types.AttributeValue, 0, len(params.Parameters))
	for _, p := range params.Parameters {
		av, err := attributevalue.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal query parameter %q: %w", p.Name, err)
		}
		parameters = append(parameters, av)
	}

	return func(ctx context.Context, token *string, pageSize int32) ([][]byte, *string, error) {
		input := &sdk.ExecuteStatementInput{
			Statement:      aws.String(statement),
			NextToken:      token,
			ConsistentRead: aws.Bool(c.consistentRead),
		}
		if len(parameters) > 0 {
			input.Parameters = parameters
		}
		if pageSize > 0 {
			input.Limit = aws.Int32(pageSize)
		}
		out, err := c.api.ExecuteStatement(ctx, input)
		if err != nil {
			return nil, nil, mapError("query", statement, err)
		}
		items, err := itemsToJSON(out.Items)
		if err != nil {
			return nil, nil, err
		}
		return items, out.NextToken, nil
	}, nil
}

func (c *Container) partitionPages(partitionKey string) docstore.PageFunc {
	return func(ctx context.Context, token *string, pageSize int32) ([][]byte, *string, error) {
		start, err := decodeKey(token)
		if err != nil {
			return nil, nil, err
		}
		input := &sdk.QueryInput{
			TableName:                aws.String(c.table),
			KeyConditionExpression:   aws.String("#pk = :pk"),
			ExpressionAttributeNames: map[string]string{"#pk": c.pkAttr},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: partitionKey},
			},
			ExclusiveStartKey: start,
			ConsistentRead:    aws.Bool(c.consistentRead),
		}
		if pageSize > 0 {
			input.Limit = aws.Int32(pageSize)
		}
		out, err := c.api.Query(ctx, input)
		if err != nil {
			return nil, nil, mapError("query", partitionKey, err)
		}
		items, err := itemsToJSON(out.Items)
		if err != nil {
			return nil, nil, err
		}
		next, err := encodeKey(out.LastEvaluatedKey)
		return items, next, err
	}
}

func (c *Container) scanPages() docstore.PageFunc {
	return func(ctx context.Context, token *string, pageSize int32) ([][]byte, *string, error) {
		start, err := decodeKey(token)
		if err != nil {
			return nil, nil, err
		}
		input := &sdk.ScanInput{
			TableName:         aws.String(c.table),
			ExclusiveStartKey: start,
			ConsistentRead:    aws.Bool(c.consistentRead),
		}
		if pageSize > 0 {
			input.Limit = aws.Int32(pageSize)
		}
		out, err := c.api.Scan(ctx, input)
		if err != nil {
			return nil, nil, mapError("scan", c.table, err)
		}
		items, err := itemsToJSON(out.Items)
		if err != nil {
			return nil, nil, err
		}
		next, err := encodeKey(out.LastEvaluatedKey)
		return items, next, err
	}
}

// encodeKey turns a LastEvaluatedKey of string attributes into a continuation token.
func encodeKey(key map[string]types.AttributeValue) (*string, error) {
	if len(key) == 0 {
		return nil, nil
	}
	plain := make(map[string]string, len(key))
	for name, v := range key {
		s, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("key attribute %q is not a string", name)
		}
		plain[name] = s.Value
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return nil, err
	}
	token := string(b)
	return &token, nil
}

func decodeKey(token *string) (map[string]types.AttributeValue, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	var plain map[string]string
	if err := json.Unmarshal([]byte(*token), &plain); err != nil {
		return nil, fmt.Errorf("invalid continuation token: %w", err)
	}
	key := make(map[string]types.AttributeValue, len(plain))
	for name, v := range plain {
		key[name] = &types.AttributeValueMemberS{Value: v}
	}
	return key, nil
}
