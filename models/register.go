/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"encoding/json"

	"github.com/suparena/docscratch/registry"
)

// ProductType is the registered type name of Product.
const ProductType = "product"

func init() {
	registry.RegisterKeyMap[Product](map[string]string{
		registry.IDKey:           "{id}",
		registry.PartitionKeyKey: "{categoryId}",
	})
	registry.RegisterType(ProductType, func(raw []byte) (any, error) {
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}
