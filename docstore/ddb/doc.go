/*
Package ddb implements the docstore interfaces on Amazon DynamoDB.

DynamoDB has no database resource, so a database is a table-name prefix and
every container is its own table:

	database "cosmicworks" + container "products" -> table "cosmicworks.products"

Each table is keyed by the container's partition key attribute (HASH) and
"id" (RANGE), which gives items the same identity rule as Cosmos DB: an id
is unique within its logical partition.

Throughput:
  - autoscale maps to on-demand billing capped at the configured maximum
  - manual maps to provisioned read and write capacity

Queries are PartiQL statements executed with ExecuteStatement. Parameters
are positional ("?") and the {table} and {partitionKey} macros are expanded
before the statement is sent:

	params := &docmodels.QueryParams{
	    Query:      `SELECT * FROM "{table}" WHERE categoryId = ?`,
	    Parameters: []docmodels.QueryParameter{{Value: "bikes"}},
	}

An empty statement with a PartitionKey runs a key-condition Query on the
partition instead.
*/
package ddb
