/*
Package itemstore provides typed access to a docstore.Container.

A Store[T] derives each item's id and partition key from the key map registered
for T (see package registry). Templates reference JSON field names:

	registry.RegisterKeyMap[models.Product](map[string]string{
	    registry.IDKey:           "{id}",
	    registry.PartitionKeyKey: "{categoryId}",
	})

	store, err := itemstore.New[models.Product](container)
	id, err := store.Put(ctx, product)
	p, err := store.Get(ctx, id, "bikes")

When the id template expands to an empty string, Put assigns a random UUID.
*/
package itemstore
