package models

import (
	"github.com/go-openapi/strfmt"

	docerrs "github.com/suparena/docscratch/errors"
)

// Product is an item in the cosmicworks products container.
type Product struct {

	// Unique identifier of the product.
	// Required: true
	ID string `json:"id"`

	// Partition key of the product.
	// Required: true
	CategoryID string `json:"categoryId"`

	// category name
	CategoryName string `json:"categoryName,omitempty"`

	// stock keeping unit
	Sku string `json:"sku,omitempty"`

	// Display name of the product.
	// Required: true
	Name string `json:"name"`

	// description
	Description string `json:"description,omitempty"`

	// price
	Price float64 `json:"price,omitempty"`

	// Vector embedding of the description.
	Embedding []float64 `json:"embedding,omitempty"`

	// Timestamp when the product was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"createdAt,omitempty"`
}

// Validate checks the required fields.
func (p *Product) Validate() error {
	if p.ID == "" {
		return docerrs.NewValidationError("id", "is required")
	}
	if p.CategoryID == "" {
		return docerrs.NewValidationError("categoryId", "is required")
	}
	if p.Name == "" {
		return docerrs.NewValidationError("name", "is required")
	}
	if p.Price < 0 {
		return docerrs.NewValidationError("price", "must not be negative")
	}
	return nil
}

// SampleProduct returns the item created by the scratch run. It carries only
// id, name, description and categoryId.
func SampleProduct() Product {
	return Product{
		ID:          "item1",
		CategoryID:  "bikes",
		Name:        "Road Bike 3000",
		Description: "This is a very fast road bike.",
	}
}
