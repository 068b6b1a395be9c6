/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/docscratch/docmodels"
	docerrs "github.com/suparena/docscratch/errors"
)

// Backend names.
const (
	BackendCosmos   = "cosmos"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Backends lists the supported backend names.
var Backends = []string{BackendCosmos, BackendDynamoDB, BackendMemory}

// CosmosConfig holds the Azure Cosmos DB settings.
type CosmosConfig struct {
	ConnectionString string   `yaml:"connectionString" env:"COSMOS_DB_CONNECTION_STRING"`
	ConsistencyLevel string   `yaml:"consistencyLevel" env:"COSMOS_DB_CONSISTENCY_LEVEL"`
	PreferredRegions []string `yaml:"preferredRegions" env:"COSMOS_DB_PREFERRED_REGIONS" envSeparator:","`
	RequestTimeout   Duration `yaml:"requestTimeout" env:"COSMOS_DB_REQUEST_TIMEOUT"`
}

// DynamoDBConfig holds the Amazon DynamoDB settings.
type DynamoDBConfig struct {
	Region    string `yaml:"region" env:"DYNAMODB_REGION"`
	Endpoint  string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT"`
	AccessKey string `yaml:"accessKey" env:"DYNAMODB_ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" env:"DYNAMODB_SECRET_KEY"`
}

// QueryParameter is a named query parameter as written in the config file.
type QueryParameter struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// Config is the complete docscratch configuration.
type Config struct {
	Backend  string         `yaml:"backend" env:"DOCSCRATCH_BACKEND"`
	Cosmos   CosmosConfig   `yaml:"cosmos"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`

	Database         string `yaml:"database" env:"COSMOS_DB_DATABASE"`
	Container        string `yaml:"container" env:"COSMOS_DB_CONTAINER"`
	PartitionKeyPath string `yaml:"partitionKeyPath"`
	MaxThroughput    int32  `yaml:"maxThroughput"`

	SampleItemID       string `yaml:"sampleItemId"`
	SamplePartitionKey string `yaml:"samplePartitionKey"`

	Query             string           `yaml:"query" env:"DOCSCRATCH_QUERY"`
	QueryParameters   []QueryParameter `yaml:"queryParameters"`
	QueryPartitionKey string           `yaml:"queryPartitionKey"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Backend: BackendCosmos,
		Cosmos: CosmosConfig{
			ConsistencyLevel: "Eventual",
			PreferredRegions: []string{"West US", "East US"},
			RequestTimeout:   Duration(10 * time.Second),
		},
		Database:           "cosmicworks",
		Container:          "products",
		PartitionKeyPath:   "/categoryId",
		MaxThroughput:      1000,
		SampleItemID:       "item1",
		SamplePartitionKey: "bikes",
	}
}

// DefaultQuery returns the category query for the given backend. Load also
// narrows the default query to the bikes partition.
func DefaultQuery(backend string) (string, []QueryParameter) {
	if backend == BackendDynamoDB {
		return `SELECT * FROM "{table}" WHERE categoryId = ?`, []QueryParameter{{Name: "categoryId", Value: "bikes"}}
	}
	return "SELECT * FROM c WHERE c.categoryId = @categoryId", []QueryParameter{{Name: "@categoryId", Value: "bikes"}}
}

// Option adjusts the configuration after the environment has been applied.
type Option func(*Config)

// WithBackend selects the backend regardless of file and environment.
func WithBackend(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.Backend = name
		}
	}
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, in increasing order of precedence, then applies opts. envFile
// is loaded into the environment first; when empty, a .env in the working
// directory is used if present.
func Load(path, envFile string, opts ...Option) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	regions := c.Cosmos.PreferredRegions[:0]
	for _, r := range c.Cosmos.PreferredRegions {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	c.Cosmos.PreferredRegions = regions

	if c.Query == "" {
		c.Query, c.QueryParameters = DefaultQuery(c.Backend)
		if c.QueryPartitionKey == "" {
			c.QueryPartitionKey = "bikes"
		}
	}
}

// Validate reports the first missing or invalid setting for the selected backend.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return docerrs.NewValidationError("backend", fmt.Sprintf("unknown backend %q, expected one of %s", c.Backend, strings.Join(Backends, ", ")))
	}
	if c.Database == "" {
		return docerrs.NewValidationError("COSMOS_DB_DATABASE", "is required")
	}
	if c.Container == "" {
		return docerrs.NewValidationError("COSMOS_DB_CONTAINER", "is required")
	}
	if !strings.HasPrefix(c.PartitionKeyPath, "/") {
		return docerrs.NewValidationError("partitionKeyPath", "must start with /")
	}
	if c.MaxThroughput < 0 {
		return docerrs.NewValidationError("maxThroughput", "must not be negative")
	}

	switch c.Backend {
	case BackendCosmos:
		if c.Cosmos.ConnectionString == "" {
			return docerrs.NewValidationError("COSMOS_DB_CONNECTION_STRING", "is required")
		}
		if c.Cosmos.RequestTimeout <= 0 {
			return docerrs.NewValidationError("COSMOS_DB_REQUEST_TIMEOUT", "must be positive")
		}
	case BackendDynamoDB:
		if c.DynamoDB.Region == "" {
			return docerrs.NewValidationError("DYNAMODB_REGION", "is required")
		}
		if (c.DynamoDB.AccessKey == "") != (c.DynamoDB.SecretKey == "") {
			return docerrs.NewValidationError("DYNAMODB_SECRET_KEY", "access key and secret key must be set together")
		}
	}
	return nil
}

// QueryParams converts the configured query into docstore query parameters.
func (c *Config) QueryParams() *docmodels.QueryParams {
	params := &docmodels.QueryParams{Query: c.Query}
	for _, p := range c.QueryParameters {
		params.Parameters = append(params.Parameters, docmodels.QueryParameter{Name: p.Name, Value: p.Value})
	}
	if c.QueryPartitionKey != "" {
		pk := c.QueryPartitionKey
		params.PartitionKey = &pk
	}
	return params
}

// ContainerProperties returns the properties used to create the container.
func (c *Config) ContainerProperties() docmodels.ContainerProperties {
	props := docmodels.ContainerProperties{ID: c.Container, PartitionKeyPath: c.PartitionKeyPath}
	if c.MaxThroughput > 0 {
		props.Throughput = &docmodels.Throughput{MaxThroughput: c.MaxThroughput, Autoscale: true}
	}
	return props
}
