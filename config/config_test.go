package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docerrs "github.com/suparena/docscratch/errors"
)

const testConnStr = "AccountEndpoint=https://example.documents.azure.com:443/;AccountKey=a2V5;"

var configEnvVars = []string{
	"COSMOS_DB_CONNECTION_STRING", "COSMOS_DB_DATABASE", "COSMOS_DB_CONTAINER",
	"COSMOS_DB_CONSISTENCY_LEVEL", "COSMOS_DB_PREFERRED_REGIONS", "COSMOS_DB_REQUEST_TIMEOUT",
	"DOCSCRATCH_BACKEND", "DOCSCRATCH_QUERY",
	"DYNAMODB_REGION", "DYNAMODB_ENDPOINT", "DYNAMODB_ACCESS_KEY", "DYNAMODB_SECRET_KEY",
}

// clearEnv unsets every recognised variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COSMOS_DB_CONNECTION_STRING", testConnStr)

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, BackendCosmos, cfg.Backend)
	assert.Equal(t, "cosmicworks", cfg.Database)
	assert.Equal(t, "products", cfg.Container)
	assert.Equal(t, "/categoryId", cfg.PartitionKeyPath)
	assert.Equal(t, int32(1000), cfg.MaxThroughput)
	assert.Equal(t, "Eventual", cfg.Cosmos.ConsistencyLevel)
	assert.Equal(t, []string{"West US", "East US"}, cfg.Cosmos.PreferredRegions)
	assert.Equal(t, 10*time.Second, cfg.Cosmos.RequestTimeout.Std())

	params := cfg.QueryParams()
	assert.Equal(t, "SELECT * FROM c WHERE c.categoryId = @categoryId", params.Query)
	require.Len(t, params.Parameters, 1)
	assert.Equal(t, "@categoryId", params.Parameters[0].Name)
	assert.Equal(t, "bikes", params.Parameters[0].Value)
	require.NotNil(t, params.PartitionKey)
	assert.Equal(t, "bikes", *params.PartitionKey)

	props := cfg.ContainerProperties()
	require.NotNil(t, props.Throughput)
	assert.True(t, props.Throughput.Autoscale)
	assert.Equal(t, int32(1000), props.Throughput.MaxThroughput)
}

func TestLoadMissingConnectionString(t *testing.T) {
	clearEnv(t)

	_, err := Load("", "")
	require.Error(t, err)
	assert.True(t, docerrs.IsValidationError(err))
	assert.Contains(t, err.Error(), "COSMOS_DB_CONNECTION_STRING")
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "docscratch.yaml", `
backend: cosmos
database: fromfile
container: fromfile
maxThroughput: 4000
cosmos:
  connectionString: "`+testConnStr+`"
  consistencyLevel: Session
  preferredRegions: [North Europe]
  requestTimeout: 30s
query: SELECT * FROM c WHERE c.price > @minPrice
queryParameters:
  - name: "@minPrice"
    value: 100
`)
	t.Setenv("COSMOS_DB_CONTAINER", "fromenv")
	t.Setenv("COSMOS_DB_PREFERRED_REGIONS", "UK South, ,UK West")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Database)
	assert.Equal(t, "fromenv", cfg.Container)
	assert.Equal(t, int32(4000), cfg.MaxThroughput)
	assert.Equal(t, "Session", cfg.Cosmos.ConsistencyLevel)
	assert.Equal(t, []string{"UK South", "UK West"}, cfg.Cosmos.PreferredRegions)
	assert.Equal(t, 30*time.Second, cfg.Cosmos.RequestTimeout.Std())

	params := cfg.QueryParams()
	assert.Equal(t, "SELECT * FROM c WHERE c.price > @minPrice", params.Query)
	require.Len(t, params.Parameters, 1)
	assert.Equal(t, 100, params.Parameters[0].Value)
	assert.Nil(t, params.PartitionKey, "custom queries are not narrowed to a partition")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "test.env", "DOCSCRATCH_BACKEND=DynamoDB\nDYNAMODB_REGION=us-west-2\nDYNAMODB_ENDPOINT=http://localhost:8000\n")
	t.Cleanup(func() {
		for _, name := range configEnvVars {
			os.Unsetenv(name)
		}
	})

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, "us-west-2", cfg.DynamoDB.Region)
	assert.Equal(t, "http://localhost:8000", cfg.DynamoDB.Endpoint)
	assert.Equal(t, `SELECT * FROM "{table}" WHERE categoryId = ?`, cfg.Query)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadWithBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOCSCRATCH_BACKEND", "cosmos")

	cfg, err := Load("", "", WithBackend(BackendMemory))
	require.NoError(t, err, "memory backend needs no connection string")
	assert.Equal(t, BackendMemory, cfg.Backend)

	cfg, err = Load("", "", WithBackend(""))
	assert.Nil(t, cfg)
	assert.True(t, docerrs.IsValidationError(err))
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		field  string
	}{
		"unknown backend":    {func(c *Config) { c.Backend = "mongo" }, "backend"},
		"missing database":   {func(c *Config) { c.Database = "" }, "COSMOS_DB_DATABASE"},
		"missing container":  {func(c *Config) { c.Container = "" }, "COSMOS_DB_CONTAINER"},
		"bad partition path": {func(c *Config) { c.PartitionKeyPath = "categoryId" }, "partitionKeyPath"},
		"zero timeout":       {func(c *Config) { c.Cosmos.RequestTimeout = 0 }, "COSMOS_DB_REQUEST_TIMEOUT"},
		"dynamodb region": {func(c *Config) {
			c.Backend = BackendDynamoDB
		}, "DYNAMODB_REGION"},
		"dynamodb half credentials": {func(c *Config) {
			c.Backend = BackendDynamoDB
			c.DynamoDB.Region = "us-east-1"
			c.DynamoDB.AccessKey = "AKIA"
		}, "DYNAMODB_SECRET_KEY"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Cosmos.ConnectionString = testConnStr
			tt.mutate(cfg)
			err := cfg.Validate()
			var ve *docerrs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	memory := Default()
	memory.Backend = BackendMemory
	assert.NoError(t, memory.Validate())
}

func TestLoadRequestTimeoutSeconds(t *testing.T) {
	clearEnv(t)
	t.Setenv("COSMOS_DB_CONNECTION_STRING", testConnStr)
	t.Setenv("COSMOS_DB_REQUEST_TIMEOUT", "10")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Cosmos.RequestTimeout.Std())

	t.Setenv("COSMOS_DB_REQUEST_TIMEOUT", "soon")
	_, err = Load("", "")
	assert.Error(t, err)

	clearEnv(t)
	path := writeFile(t, "docscratch.yaml", "cosmos:\n  connectionString: \""+testConnStr+"\"\n  requestTimeout: 45\n")
	cfg, err = Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Cosmos.RequestTimeout.Std())
}

func TestDurationUnmarshalText(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		"seconds":          {in: "10", want: 10 * time.Second},
		"fractional":       {in: "2.5", want: 2500 * time.Millisecond},
		"with unit":        {in: "1m30s", want: 90 * time.Second},
		"milliseconds":     {in: "250ms", want: 250 * time.Millisecond},
		"padded":           {in: " 15 ", want: 15 * time.Second},
		"empty":            {in: "", want: 0},
		"not a duration":   {in: "ten", wantErr: true},
		"not a finite num": {in: "NaN", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}
