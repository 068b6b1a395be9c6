/*
Package registry manages key maps and type decoders for docscratch items.

Key Map Registry:
Associates Go types with the templates used to derive an item's id and
partition key. Templates reference JSON field names of the entity:

	registry.RegisterKeyMap[models.Product](map[string]string{
	    registry.IDKey:           "{id}",
	    registry.PartitionKeyKey: "{categoryId}",
	})

Type Registry:
Maps item type names to decoders so the CLI can print typed items:

	registry.RegisterType("product", func(raw []byte) (any, error) {
	    var p models.Product
	    return &p, json.Unmarshal(raw, &p)
	})

Both registries are thread-safe and are normally populated from init functions.
*/
package registry
