/*
Package docmodels defines the data structures passed between docscratch and its backends.

Resources are described, not modeled: databases and containers carry only
the properties needed to create them, and items travel as opaque JSON.

QueryParams:

	pk := "bikes"
	params := &QueryParams{
	    Query: "SELECT * FROM c WHERE c.categoryId = @categoryId",
	    Parameters: []QueryParameter{
	        {Name: "@categoryId", Value: "bikes"},
	    },
	    PartitionKey: &pk,
	}

StreamOptions:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}
*/
package docmodels
