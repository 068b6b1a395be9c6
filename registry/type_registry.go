/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"slices"
	"sync"
)

// UnmarshalFunc decodes a raw JSON item into a typed value.
type UnmarshalFunc func(raw []byte) (any, error)

var (
	typeRegistry = make(map[string]UnmarshalFunc)
	typeMu       sync.RWMutex
)

// RegisterType registers a decoder for the given type name.
// It panics if the name is already registered so init-time collisions surface immediately.
func RegisterType(name string, fn UnmarshalFunc) {
	typeMu.Lock()
	defer typeMu.Unlock()
	if _, exists := typeRegistry[name]; exists {
		panic(fmt.Sprintf("type registry: type %q already registered", name))
	}
	typeRegistry[name] = fn
}

// GetUnmarshalFunc returns the decoder registered for the given type name.
func GetUnmarshalFunc(name string) (UnmarshalFunc, error) {
	typeMu.RLock()
	defer typeMu.RUnlock()
	fn, ok := typeRegistry[name]
	if !ok {
		return nil, fmt.Errorf("type registry: no type registered as %q", name)
	}
	return fn, nil
}

// RegisteredTypes lists the registered type names in sorted order.
func RegisteredTypes() []string {
	typeMu.RLock()
	defer typeMu.RUnlock()
	names := make([]string, 0, len(typeRegistry))
	for name := range typeRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
