/*
Package config loads docscratch settings.

Settings come from three layers, later layers winning:

  - built-in defaults (database cosmicworks, container products, partition key
    /categoryId, autoscale 1000 RU/s, Eventual consistency, preferred regions
    West US and East US, 10s request timeout);
  - an optional YAML file;
  - the environment, including a .env file loaded with godotenv.

Recognised variables: COSMOS_DB_CONNECTION_STRING, COSMOS_DB_DATABASE,
COSMOS_DB_CONTAINER, COSMOS_DB_CONSISTENCY_LEVEL, COSMOS_DB_PREFERRED_REGIONS,
COSMOS_DB_REQUEST_TIMEOUT, DOCSCRATCH_BACKEND, DOCSCRATCH_QUERY,
DYNAMODB_REGION, DYNAMODB_ENDPOINT, DYNAMODB_ACCESS_KEY and DYNAMODB_SECRET_KEY.
*/
package config
