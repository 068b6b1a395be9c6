/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory stand-in for the subset of DynamoDB used by the backend.
type fakeAPI struct {
	mu         sync.Mutex
	tables     map[string]*fakeTable
	calls      []string
	statements []*sdk.ExecuteStatementInput
	stmtItems  []map[string]types.AttributeValue
	errs       map[string]error
}

type fakeTable struct {
	input *sdk.CreateTableInput
	hash  string
	rng   string
	items map[string]map[string]types.AttributeValue
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{tables: make(map[string]*fakeTable), errs: make(map[string]error)}
}

func (f *fakeAPI) record(op string) error {
	f.calls = append(f.calls, op)
	return f.errs[op]
}

func (t *fakeTable) keyOf(item map[string]types.AttributeValue) string {
	k := item[t.hash].(*types.AttributeValueMemberS).Value
	if t.rng != "" {
		k += "\x00" + item[t.rng].(*types.AttributeValueMemberS).Value
	}
	return k
}

func (t *fakeTable) sortedKeys() []string {
	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeAPI) CreateTable(ctx context.Context, in *sdk.CreateTableInput, _ ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTable"); err != nil {
		return nil, err
	}
	name := aws.ToString(in.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}
	t := &fakeTable{input: in, items: make(map[string]map[string]types.AttributeValue)}
	for _, k := range in.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			t.hash = aws.ToString(k.AttributeName)
		} else {
			t.rng = aws.ToString(k.AttributeName)
		}
	}
	f.tables[name] = t
	return &sdk.CreateTableOutput{}, nil
}

func (f *fakeAPI) DescribeTable(ctx context.Context, in *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DescribeTable")
	if _, ok := f.tables[aws.ToString(in.TableName)]; !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &sdk.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeAPI) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PutItem"); err != nil {
		return nil, err
	}
	t, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	key := t.keyOf(in.Item)
	if _, exists := t.items[key]; exists && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	t.items[key] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetItem"); err != nil {
		return nil, err
	}
	t, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &sdk.GetItemOutput{Item: t.items[t.keyOf(in.Key)]}, nil
}

func (f *fakeAPI) page(t *fakeTable, keys []string, start map[string]types.AttributeValue, limit *int32) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	from := 0
	if start != nil {
		startKey := t.keyOf(start)
		from = sort.SearchStrings(keys, startKey)
		if from < len(keys) && keys[from] == startKey {
			from++
		}
	}
	to := len(keys)
	if limit != nil && from+int(*limit) < to {
		to = from + int(*limit)
	}
	var items []map[string]types.AttributeValue
	for _, k := range keys[from:to] {
		items = append(items, t.items[k])
	}
	var last map[string]types.AttributeValue
	if to < len(keys) && len(items) > 0 {
		lastItem := items[len(items)-1]
		last = map[string]types.AttributeValue{t.hash: lastItem[t.hash]}
		if t.rng != "" {
			last[t.rng] = lastItem[t.rng]
		}
	}
	return items, last
}

func (f *fakeAPI) Scan(ctx context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Scan"); err != nil {
		return nil, err
	}
	t, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	items, last := f.page(t, t.sortedKeys(), in.ExclusiveStartKey, in.Limit)
	return &sdk.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeAPI) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Query"); err != nil {
		return nil, err
	}
	t, ok := f.tables[aws.ToString(in.TableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	want := in.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value
	var keys []string
	for _, k := range t.sortedKeys() {
		if t.items[k][t.hash].(*types.AttributeValueMemberS).Value == want {
			keys = append(keys, k)
		}
	}
	items, last := f.page(t, keys, in.ExclusiveStartKey, in.Limit)
	return &sdk.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

// ExecuteStatement serves stmtItems one per page so pagination is exercised.
func (f *fakeAPI) ExecuteStatement(ctx context.Context, in *sdk.ExecuteStatementInput, _ ...func(*sdk.Options)) (*sdk.ExecuteStatementOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ExecuteStatement"); err != nil {
		return nil, err
	}
	f.statements = append(f.statements, in)
	idx := 0
	if in.NextToken != nil {
		idx, _ = strconv.Atoi(*in.NextToken)
	}
	if idx >= len(f.stmtItems) {
		return &sdk.ExecuteStatementOutput{}, nil
	}
	out := &sdk.ExecuteStatementOutput{Items: f.stmtItems[idx : idx+1]}
	if idx+1 < len(f.stmtItems) {
		out.NextToken = aws.String(strconv.Itoa(idx + 1))
	}
	return out, nil
}

func (f *fakeAPI) DescribeEndpoints(ctx context.Context, in *sdk.DescribeEndpointsInput, _ ...func(*sdk.Options)) (*sdk.DescribeEndpointsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DescribeEndpoints"); err != nil {
		return nil, err
	}
	return &sdk.DescribeEndpointsOutput{Endpoints: []types.Endpoint{
		{Address: aws.String("dynamodb.us-west-2.amazonaws.com"), CachePeriodInMinutes: 1440},
	}}, nil
}

var _ API = (*fakeAPI)(nil)
