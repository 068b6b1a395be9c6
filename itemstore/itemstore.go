/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
	"github.com/suparena/docscratch/registry"
)

// Result is a typed stream result.
type Result[T any] struct {
	Item  *T
	Error error
	Meta  docmodels.StreamMeta
}

// Store reads and writes items of type T in one container.
type Store[T any] struct {
	container docstore.Container
	keyMap    map[string]string
	pkField   string
	logger    *zap.Logger
	newID     func() string
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	logger *zap.Logger
	newID  func() string
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *zap.Logger) Option {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator used for items without an id.
func WithIDGenerator(fn func() string) Option {
	return func(o *storeOptions) {
		o.newID = fn
	}
}

// New returns a store for T. A key map must be registered for T.
func New[T any](container docstore.Container, opts ...Option) (*Store[T], error) {
	keyMap, ok := registry.GetKeyMap[T]()
	if !ok {
		return nil, fmt.Errorf("%w for %T", docerrs.ErrNoKeyMap, *new(T))
	}
	if _, ok := keyMap[registry.PartitionKeyKey]; !ok {
		return nil, docerrs.NewValidationError(registry.PartitionKeyKey, fmt.Sprintf("key map for %T has no partition key template", *new(T)))
	}
	pkField, err := docstore.FieldName(container.PartitionKeyPath())
	if err != nil {
		return nil, err
	}

	o := storeOptions{logger: zap.NewNop(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		container: container,
		keyMap:    keyMap,
		pkField:   pkField,
		logger:    o.logger,
		newID:     o.newID,
	}, nil
}

// Put creates the entity as a new item and returns its id.
func (s *Store[T]) Put(ctx context.Context, entity T) (string, error) {
	doc, err := toDocument(entity)
	if err != nil {
		return "", err
	}

	keys := expandKeyMap(s.keyMap, doc)
	id := keys[registry.IDKey]
	if id == "" {
		id = s.newID()
	}
	pk := keys[registry.PartitionKeyKey]
	if pk == "" {
		return "", docerrs.NewValidationError(s.pkField, "partition key expanded to an empty value")
	}
	doc[docstore.IDField] = id
	doc[s.pkField] = pk

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := s.container.CreateItem(ctx, pk, raw); err != nil {
		return "", err
	}
	s.logger.Debug("item stored", zap.String("id", id), zap.String("partitionKey", pk))
	return id, nil
}

// Get reads one item by id and partition key.
func (s *Store[T]) Get(ctx context.Context, id, partitionKey string) (*T, error) {
	raw, err := s.container.ReadItem(ctx, id, partitionKey)
	if err != nil {
		return nil, err
	}
	return decode[T](raw)
}

// List returns every item in the container.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	raw, err := s.container.ReadAllItems(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw)
}

// Query runs a query and decodes the results.
func (s *Store[T]) Query(ctx context.Context, params *docmodels.QueryParams) ([]T, error) {
	raw, err := s.container.QueryItems(ctx, params)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](raw)
}

// Stream decodes a container stream. Decode failures are delivered as results with an error.
func (s *Store[T]) Stream(ctx context.Context, params *docmodels.QueryParams, opts ...docmodels.StreamOption) <-chan Result[T] {
	out := make(chan Result[T])
	in := s.container.Stream(ctx, params, opts...)

	go func() {
		defer close(out)
		for r := range in {
			res := Result[T]{Error: r.Error, Meta: r.Meta}
			if r.Error == nil {
				res.Item, res.Error = decode[T](r.Item)
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func decode[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return &v, nil
}

func decodeAll[T any](raw [][]byte) ([]T, error) {
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		v, err := decode[T](r)
		if err != nil {
			return nil, err
		}
		items = append(items, *v)
	}
	return items, nil
}
