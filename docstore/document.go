/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/suparena/docscratch/errors"
)

// IDField is the identifying attribute every item carries.
const IDField = "id"

// FieldName converts a partition key path such as "/categoryId" into its attribute name.
// Only single-segment paths are supported.
func FieldName(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		return "", errors.NewValidationError("partitionKeyPath", fmt.Sprintf("%q must start with '/'", path))
	}
	name := strings.TrimPrefix(path, "/")
	if name == "" || strings.Contains(name, "/") {
		return "", errors.NewValidationError("partitionKeyPath", fmt.Sprintf("%q must name a single top-level attribute", path))
	}
	return name, nil
}

// ItemID returns the id of a JSON item.
func ItemID(doc []byte) (string, error) {
	return stringField(doc, IDField)
}

// PartitionKeyValue returns the partition key value of a JSON item for the given path.
func PartitionKeyValue(doc []byte, path string) (string, error) {
	field, err := FieldName(path)
	if err != nil {
		return "", err
	}
	return stringField(doc, field)
}

// ItemIDs returns the ids of the given items, using "<no id>" for items without one.
func ItemIDs(items [][]byte) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := ItemID(item)
		if err != nil {
			id = "<no id>"
		}
		ids = append(ids, id)
	}
	return ids
}

func stringField(doc []byte, field string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return "", errors.NewValidationError("item", fmt.Sprintf("not a JSON object: %v", err))
	}
	raw, ok := fields[field]
	if !ok {
		return "", errors.NewValidationError(field, "missing from item")
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.NewValidationError(field, "must be a string")
	}
	if value == "" {
		return "", errors.NewValidationError(field, "must not be empty")
	}
	return value, nil
}
