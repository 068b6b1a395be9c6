/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docscratch

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/docscratch/config"
	"github.com/suparena/docscratch/docstore"
)

// Opener builds a docstore.Client from the loaded configuration.
type Opener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (docstore.Client, error)

// Backends manages the openers of the available document database backends.
type Backends interface {
	// Register adds an opener under the given backend name (for example "cosmos").
	Register(name string, open Opener) error
	// Open builds a client with the opener registered under name.
	Open(ctx context.Context, name string, cfg *config.Config, logger *zap.Logger) (docstore.Client, error)
	// Names lists the registered backend names in sorted order.
	Names() []string
}

// backendManager is a thread-safe implementation of the Backends interface.
type backendManager struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// NewBackends creates and returns an empty Backends registry.
func NewBackends() Backends {
	return &backendManager{
		openers: make(map[string]Opener),
	}
}

// Register stores the opener under the given name.
func (bm *backendManager) Register(name string, open Opener) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.openers[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}
	bm.openers[name] = open
	return nil
}

// Open looks up the opener and calls it.
func (bm *backendManager) Open(ctx context.Context, name string, cfg *config.Config, logger *zap.Logger) (docstore.Client, error) {
	bm.mu.RLock()
	open, exists := bm.openers[name]
	bm.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q not found", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := open(ctx, cfg, logger.With(zap.String("backend", name)))
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	return client, nil
}

func (bm *backendManager) Names() []string {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	names := make([]string, 0, len(bm.openers))
	for name := range bm.openers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
