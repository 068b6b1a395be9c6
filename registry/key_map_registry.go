/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"maps"
	"reflect"
	"sync"
)

// Key map entries understood by the item store.
const (
	IDKey           = "id"
	PartitionKeyKey = "partitionKey"
)

var (
	keyMapRegistry = make(map[reflect.Type]map[string]string)
	mu             sync.RWMutex
)

// RegisterKeyMap associates a Go type T with the templates for its id and partition key.
func RegisterKeyMap[T any](keyMap map[string]string) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()
	keyMapRegistry[t] = maps.Clone(keyMap)
}

// GetKeyMap retrieves the key map for type T, if any.
func GetKeyMap[T any]() (map[string]string, bool) {
	t := reflect.TypeFor[T]()

	mu.RLock()
	defer mu.RUnlock()
	m, ok := keyMapRegistry[t]
	if !ok {
		return nil, false
	}
	return maps.Clone(m), true
}
