/*
Package cosmos implements the docstore interfaces on Azure Cosmos DB.

Requests go through the azcosmos SDK:

	client, err := cosmos.NewClient(cosmos.Options{
	    ConnectionString: os.Getenv("COSMOS_DB_CONNECTION_STRING"),
	    ConsistencyLevel: "Eventual",
	    PreferredRegions: []string{"West US", "East US"},
	    RequestTimeout:   10 * time.Second,
	})
	db, err := client.CreateDatabaseIfNotExists(ctx, docmodels.DatabaseProperties{ID: "cosmicworks"})
	container, err := db.CreateContainerIfNotExists(ctx, docmodels.ContainerProperties{
	    ID:               "products",
	    PartitionKeyPath: "/categoryId",
	    Throughput:       &docmodels.Throughput{MaxThroughput: 1000, Autoscale: true},
	})

The SDK has no "create if not exists" call, so a 409 Conflict from a create
is treated as success and the existing resource is opened.

Account metadata is not exposed by azcosmos; AccountInfo issues a signed
GET against the account endpoint through an azcore pipeline that shares
the client's retry and transport options.
*/
package cosmos
