/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the docstore interfaces for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	"github.com/suparena/docscratch/errors"
)

// Operation names used for call recording and error injection.
const (
	OpCreateDatabase  = "CreateDatabaseIfNotExists"
	OpCreateContainer = "CreateContainerIfNotExists"
	OpCreateItem      = "CreateItem"
	OpReadItem        = "ReadItem"
	OpReadAllItems    = "ReadAllItems"
	OpQueryItems      = "QueryItems"
	OpStream          = "Stream"
	OpAccountInfo     = "AccountInfo"
)

// Call is one recorded operation together with its arguments.
type Call struct {
	Op   string
	Args []any
}

// QueryFunc replaces the default query behavior of every container.
type QueryFunc func(ctx context.Context, container string, params *docmodels.QueryParams) ([][]byte, error)

type state struct {
	mu        sync.RWMutex
	calls     []Call
	errs      map[string]error
	queryFunc QueryFunc
	account   docmodels.AccountInfo
	databases map[string]*Database
}

// Client is an in-memory docstore.Client
type Client struct {
	st *state
}

// Database is an in-memory docstore.Database
type Database struct {
	st         *state
	id         string
	containers map[string]*Container
}

// Container is an in-memory docstore.Container.
// Items are kept per partition key value.
type Container struct {
	st      *state
	id      string
	pkPath  string
	buckets map[string]map[string][]byte
}

// New creates a new mock Client
func New() *Client {
	return &Client{st: &state{
		errs:      make(map[string]error),
		databases: make(map[string]*Database),
		account: docmodels.AccountInfo{
			ID:                "mock",
			ReadableLocations: []docmodels.Location{{Name: "Local", Endpoint: "memory://local"}},
			WritableLocations: []docmodels.Location{{Name: "Local", Endpoint: "memory://local"}},
			ConsistencyLevel:  "Strong",
		},
	}}
}

// WithError makes the named operation return err
func (c *Client) WithError(op string, err error) *Client {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.errs[op] = err
	return c
}

// WithQueryFunc sets a custom query function for testing
func (c *Client) WithQueryFunc(f QueryFunc) *Client {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.queryFunc = f
	return c
}

// WithAccount sets the account metadata returned by AccountInfo
func (c *Client) WithAccount(info docmodels.AccountInfo) *Client {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.account = info
	return c
}

// Calls returns a copy of the recorded calls in order
func (c *Client) Calls() []Call {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	return append([]Call(nil), c.st.calls...)
}

// CallCount returns how many times op was called
func (c *Client) CallCount(op string) int {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	n := 0
	for _, call := range c.st.calls {
		if call.Op == op {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and injected errors, keeping stored data
func (c *Client) Reset() {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.st.calls = nil
	c.st.errs = make(map[string]error)
}

// record appends a call and returns the injected error for op, if any.
// Callers must hold st.mu.
func (st *state) record(op string, args ...any) error {
	st.calls = append(st.calls, Call{Op: op, Args: args})
	return st.errs[op]
}

// CreateDatabaseIfNotExists creates or opens a database
func (c *Client) CreateDatabaseIfNotExists(ctx context.Context, props docmodels.DatabaseProperties) (docstore.Database, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.st.record(OpCreateDatabase, props); err != nil {
		return nil, err
	}
	if props.ID == "" {
		return nil, errors.NewValidationError("id", "database id is required")
	}
	db, ok := c.st.databases[props.ID]
	if !ok {
		db = &Database{st: c.st, id: props.ID, containers: make(map[string]*Container)}
		c.st.databases[props.ID] = db
	}
	return db, nil
}

// Database returns an existing database
func (c *Client) Database(id string) (docstore.Database, error) {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()

	db, ok := c.st.databases[id]
	if !ok {
		return nil, errors.NewNotFoundError("database", id)
	}
	return db, nil
}

// AccountInfo returns the configured account metadata
func (c *Client) AccountInfo(ctx context.Context) (*docmodels.AccountInfo, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.st.record(OpAccountInfo); err != nil {
		return nil, err
	}
	info := c.st.account
	return &info, nil
}

func (d *Database) ID() string { return d.id }

// CreateContainerIfNotExists creates or opens a container
func (d *Database) CreateContainerIfNotExists(ctx context.Context, props docmodels.ContainerProperties) (docstore.Container, error) {
	d.st.mu.Lock()
	defer d.st.mu.Unlock()

	if err := d.st.record(OpCreateContainer, d.id, props); err != nil {
		return nil, err
	}
	if props.ID == "" {
		return nil, errors.NewValidationError("id", "container id is required")
	}
	if _, err := docstore.FieldName(props.PartitionKeyPath); err != nil {
		return nil, err
	}
	c, ok := d.containers[props.ID]
	if !ok {
		c = &Container{st: d.st, id: props.ID, pkPath: props.PartitionKeyPath, buckets: make(map[string]map[string][]byte)}
		d.containers[props.ID] = c
	}
	return c, nil
}

// Container returns an existing container
func (d *Database) Container(id, partitionKeyPath string) (docstore.Container, error) {
	d.st.mu.RLock()
	defer d.st.mu.RUnlock()

	c, ok := d.containers[id]
	if !ok {
		return nil, errors.NewNotFoundError("container", id)
	}
	return c, nil
}

func (c *Container) ID() string { return c.id }

func (c *Container) PartitionKeyPath() string { return c.pkPath }

// CreateItem stores a new item, failing if the id already exists in the partition
func (c *Container) CreateItem(ctx context.Context, partitionKey string, item []byte) error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.st.record(OpCreateItem, c.id, partitionKey, string(item)); err != nil {
		return err
	}
	id, err := docstore.ItemID(item)
	if err != nil {
		return err
	}
	pk, err := docstore.PartitionKeyValue(item, c.pkPath)
	if err != nil {
		return err
	}
	if pk != partitionKey {
		return errors.NewValidationError(c.pkPath, fmt.Sprintf("item value %q does not match partition key %q", pk, partitionKey))
	}

	bucket, ok := c.buckets[partitionKey]
	if !ok {
		bucket = make(map[string][]byte)
		c.buckets[partitionKey] = bucket
	}
	if _, exists := bucket[id]; exists {
		return errors.NewAlreadyExistsError("item", id)
	}
	bucket[id] = append([]byte(nil), item...)
	return nil
}

// ReadItem retrieves an item by id and partition key
func (c *Container) ReadItem(ctx context.Context, id, partitionKey string) ([]byte, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.st.record(OpReadItem, c.id, id, partitionKey); err != nil {
		return nil, err
	}
	item, ok := c.buckets[partitionKey][id]
	if !ok {
		return nil, errors.NewNotFoundError("item", id)
	}
	return append([]byte(nil), item...), nil
}

// ReadAllItems returns every item ordered by partition key and id
func (c *Container) ReadAllItems(ctx context.Context) ([][]byte, error) {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()

	if err := c.st.record(OpReadAllItems, c.id); err != nil {
		return nil, err
	}
	return c.items(nil), nil
}

// QueryItems runs the custom query function, or returns the items of the requested partition
func (c *Container) QueryItems(ctx context.Context, params *docmodels.QueryParams) ([][]byte, error) {
	c.st.mu.Lock()
	err := c.st.record(OpQueryItems, c.id, params)
	queryFunc := c.st.queryFunc
	c.st.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if queryFunc != nil {
		return queryFunc(ctx, c.id, params)
	}

	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	var pk *string
	if params != nil {
		pk = params.PartitionKey
	}
	return c.items(pk), nil
}

// Stream returns the matching items through the shared streaming worker, one page
func (c *Container) Stream(ctx context.Context, params *docmodels.QueryParams, opts ...docmodels.StreamOption) <-chan docmodels.StreamResult {
	c.st.mu.Lock()
	err := c.st.record(OpStream, c.id, params)
	c.st.mu.Unlock()

	fetch := func(ctx context.Context, _ *string, _ int32) ([][]byte, *string, error) {
		if err != nil {
			return nil, nil, err
		}
		if params == nil {
			c.st.mu.RLock()
			defer c.st.mu.RUnlock()
			return c.items(nil), nil, nil
		}
		items, qerr := c.queryUnrecorded(ctx, params)
		return items, nil, qerr
	}
	return docstore.StreamPages(ctx, fetch, nil, opts...)
}

func (c *Container) queryUnrecorded(ctx context.Context, params *docmodels.QueryParams) ([][]byte, error) {
	c.st.mu.RLock()
	queryFunc := c.st.queryFunc
	c.st.mu.RUnlock()
	if queryFunc != nil {
		return queryFunc(ctx, c.id, params)
	}
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	return c.items(params.PartitionKey), nil
}

// items copies the stored items, optionally limited to one partition.
// Callers must hold st.mu.
func (c *Container) items(partitionKey *string) [][]byte {
	keys := make([]string, 0, len(c.buckets))
	for pk := range c.buckets {
		if partitionKey == nil || *partitionKey == pk {
			keys = append(keys, pk)
		}
	}
	sort.Strings(keys)

	var out [][]byte
	for _, pk := range keys {
		bucket := c.buckets[pk]
		ids := make([]string, 0, len(bucket))
		for id := range bucket {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, append([]byte(nil), bucket[id]...))
		}
	}
	return out
}

// Count returns the number of stored items
func (c *Container) Count() int {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	n := 0
	for _, bucket := range c.buckets {
		n += len(bucket)
	}
	return n
}

// Clear removes all items
func (c *Container) Clear() {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.buckets = make(map[string]map[string][]byte)
}

var (
	_ docstore.Client    = (*Client)(nil)
	_ docstore.Database  = (*Database)(nil)
	_ docstore.Container = (*Container)(nil)
)
