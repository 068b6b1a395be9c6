/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
)

// API is the subset of the DynamoDB client used by this package.
type API interface {
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	ExecuteStatement(ctx context.Context, params *sdk.ExecuteStatementInput, optFns ...func(*sdk.Options)) (*sdk.ExecuteStatementOutput, error)
	DescribeEndpoints(ctx context.Context, params *sdk.DescribeEndpointsInput, optFns ...func(*sdk.Options)) (*sdk.DescribeEndpointsOutput, error)
}

// Options configures the DynamoDB backend.
type Options struct {
	Region string
	// Endpoint overrides the service endpoint, e.g. http://localhost:8000 for DynamoDB Local.
	Endpoint string
	// AccessKey and SecretKey select static credentials; empty uses the default chain.
	AccessKey string
	SecretKey string
	// RequestTimeout bounds each HTTP request; zero keeps the SDK default.
	RequestTimeout time.Duration
	// MaxRetries overrides the SDK retry attempts when positive.
	MaxRetries int
	// ConsistencyLevel "Strong" turns on strongly consistent reads.
	ConsistencyLevel string
	// TableWaitTimeout bounds the wait for a new table to become active (default 2m).
	TableWaitTimeout time.Duration
	Logger           *zap.Logger
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,255}$`)

// NewDynamoDBClient initializes a DynamoDB client from the options.
func NewDynamoDBClient(ctx context.Context, opts Options) (*sdk.Client, error) {
	if opts.Region == "" {
		return nil, docerrs.NewValidationError("region", "is required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	if opts.RequestTimeout > 0 {
		loadOpts = append(loadOpts, config.WithHTTPClient(
			awshttp.NewBuildableClient().WithTimeout(opts.RequestTimeout),
		))
	}
	if opts.MaxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(opts.MaxRetries))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// Client implements docstore.Client on DynamoDB.
type Client struct {
	api            API
	region         string
	consistentRead bool
	tableWait      time.Duration
	logger         *zap.Logger
}

// NewClient creates the SDK client and wraps it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	api, err := NewDynamoDBClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	c := NewClientWithAPI(api, opts)
	c.logger.Info("DynamoDB client initialized",
		zap.String("region", opts.Region),
		zap.String("endpoint", opts.Endpoint),
		zap.Duration("requestTimeout", opts.RequestTimeout),
	)
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api API, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	wait := opts.TableWaitTimeout
	if wait <= 0 {
		wait = 2 * time.Minute
	}
	return &Client{
		api:            api,
		region:         opts.Region,
		consistentRead: strings.EqualFold(opts.ConsistencyLevel, "strong"),
		tableWait:      wait,
		logger:         logger,
	}
}

// CreateDatabaseIfNotExists validates the prefix; DynamoDB has nothing to create.
func (c *Client) CreateDatabaseIfNotExists(ctx context.Context, props docmodels.DatabaseProperties) (docstore.Database, error) {
	return c.Database(props.ID)
}

// Database returns the table-prefix database.
func (c *Client) Database(id string) (docstore.Database, error) {
	if id == "" || !tableNamePattern.MatchString(id+".x") {
		return nil, docerrs.NewValidationError("id", fmt.Sprintf("database %q is not a valid DynamoDB table prefix", id))
	}
	return &Database{id: id, parent: c}, nil
}

// AccountInfo reports the regional endpoints the client talks to.
func (c *Client) AccountInfo(ctx context.Context) (*docmodels.AccountInfo, error) {
	out, err := c.api.DescribeEndpoints(ctx, &sdk.DescribeEndpointsInput{})
	if err != nil {
		return nil, mapError("account", c.region, err)
	}

	locations := make([]docmodels.Location, 0, len(out.Endpoints))
	for _, ep := range out.Endpoints {
		locations = append(locations, docmodels.Location{
			Name:     c.region,
			Endpoint: "https://" + aws.ToString(ep.Address),
		})
	}
	level := "Eventual"
	if c.consistentRead {
		level = "Strong"
	}
	return &docmodels.AccountInfo{
		ID:                c.region,
		ReadableLocations: locations,
		WritableLocations: locations,
		ConsistencyLevel:  level,
	}, nil
}

// Database is a table-name prefix.
type Database struct {
	id     string
	parent *Client
}

func (d *Database) ID() string {
	return d.id
}

// TableName returns the table backing the named container.
func (d *Database) TableName(container string) string {
	return d.id + "." + container
}

// CreateContainerIfNotExists creates the table and waits for it to become active.
func (d *Database) CreateContainerIfNotExists(ctx context.Context, props docmodels.ContainerProperties) (docstore.Container, error) {
	container, err := d.container(props.ID, props.PartitionKeyPath)
	if err != nil {
		return nil, err
	}

	input := &sdk.CreateTableInput{
		TableName:            aws.String(container.table),
		AttributeDefinitions: attributeDefinitions(container.pkAttr),
		KeySchema:            keySchema(container.pkAttr),
	}
	if err := applyThroughput(input, props.Throughput); err != nil {
		return nil, err
	}

	_, err = d.parent.api.CreateTable(ctx, input)
	var inUse *types.ResourceInUseException
	switch {
	case err == nil:
		d.parent.logger.Debug("table created", zap.String("table", container.table))
	case errors.As(err, &inUse):
		d.parent.logger.Debug("table already exists", zap.String("table", container.table))
	default:
		return nil, mapError("container", props.ID, err)
	}

	waiter := sdk.NewTableExistsWaiter(d.parent.api)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(container.table)}, d.parent.tableWait); err != nil {
		return nil, fmt.Errorf("waiting for table %q: %w", container.table, err)
	}
	return container, nil
}

// Container returns a handle to the table backing the named container.
func (d *Database) Container(id, partitionKeyPath string) (docstore.Container, error) {
	return d.container(id, partitionKeyPath)
}

func (d *Database) container(id, partitionKeyPath string) (*Container, error) {
	if id == "" {
		return nil, docerrs.NewValidationError("id", "container id is required")
	}
	attr, err := docstore.FieldName(partitionKeyPath)
	if err != nil {
		return nil, err
	}
	table := d.TableName(id)
	if !tableNamePattern.MatchString(table) {
		return nil, docerrs.NewValidationError("id", fmt.Sprintf("table name %q is not valid for DynamoDB", table))
	}
	return &Container{
		api:            d.parent.api,
		id:             id,
		table:          table,
		pkPath:         partitionKeyPath,
		pkAttr:         attr,
		consistentRead: d.parent.consistentRead,
		logger:         d.parent.logger,
	}, nil
}

func attributeDefinitions(pkAttr string) []types.AttributeDefinition {
	defs := []types.AttributeDefinition{
		{AttributeName: aws.String(pkAttr), AttributeType: types.ScalarAttributeTypeS},
	}
	if pkAttr != docstore.IDField {
		defs = append(defs, types.AttributeDefinition{
			AttributeName: aws.String(docstore.IDField),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return defs
}

func keySchema(pkAttr string) []types.KeySchemaElement {
	schema := []types.KeySchemaElement{
		{AttributeName: aws.String(pkAttr), KeyType: types.KeyTypeHash},
	}
	if pkAttr != docstore.IDField {
		schema = append(schema, types.KeySchemaElement{
			AttributeName: aws.String(docstore.IDField),
			KeyType:       types.KeyTypeRange,
		})
	}
	return schema
}

func applyThroughput(input *sdk.CreateTableInput, t *docmodels.Throughput) error {
	if t == nil {
		input.BillingMode = types.BillingModePayPerRequest
		return nil
	}
	if t.MaxThroughput <= 0 {
		return docerrs.NewValidationError("maxThroughput", "must be positive")
	}
	units := int64(t.MaxThroughput)
	if t.Autoscale {
		input.BillingMode = types.BillingModePayPerRequest
		input.OnDemandThroughput = &types.OnDemandThroughput{
			MaxReadRequestUnits:  aws.Int64(units),
			MaxWriteRequestUnits: aws.Int64(units),
		}
		return nil
	}
	input.BillingMode = types.BillingModeProvisioned
	input.ProvisionedThroughput = &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(units),
		WriteCapacityUnits: aws.Int64(units),
	}
	return nil
}

var (
	_ docstore.Client   = (*Client)(nil)
	_ docstore.Database = (*Database)(nil)
)
