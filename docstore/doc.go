/*
Package docstore defines the backend-neutral interfaces of a document database.

The hierarchy mirrors the managed services it fronts:

	Client    -> account: create/open databases, fetch account metadata
	Database  -> create/open partitioned containers
	Container -> create/read items, list items, query, stream

Items are opaque JSON documents. Only the "id" attribute and the attribute
named by the container's partition key path are ever inspected.

Implementations:
  - cosmos: Azure Cosmos DB through azcosmos
  - ddb: Amazon DynamoDB through aws-sdk-go-v2
  - mock: in-memory implementation for tests and offline runs

StreamPages is the shared streaming worker: backends supply a PageFunc and
a retryable-error classifier, and get ordered results with page metadata,
retry with backoff and progress callbacks.
*/
package docstore
