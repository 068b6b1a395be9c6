/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	docerrs "github.com/suparena/docscratch/errors"
)

type seenRequest struct {
	method       string
	path         string
	continuation string
	crossPart    string
	partitionKey string
	isQuery      bool
	autoscale    string
	body         string
}

// fakeAccount serves the slice of the Cosmos DB REST API the client uses.
// Creating a database, container or item a second time answers 409.
type fakeAccount struct {
	t        *testing.T
	srv      *httptest.Server
	mu       sync.Mutex
	seen     []seenRequest
	existing map[string]bool
	items    map[string]string
	pages    []string
}

func newFakeAccount(t *testing.T) *fakeAccount {
	t.Helper()
	f := &fakeAccount{t: t, existing: make(map[string]bool), items: make(map[string]string)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAccount) connectionString() string {
	key := base64.StdEncoding.EncodeToString([]byte("not-a-real-account-key"))
	return "AccountEndpoint=" + f.srv.URL + "/;AccountKey=" + key + ";"
}

func (f *fakeAccount) client(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Options{
		ConnectionString: f.connectionString(),
		ConsistencyLevel: "Eventual",
		MaxRetries:       -1,
		Transport:        f.srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func (f *fakeAccount) requests(method, path string) []seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []seenRequest
	for _, r := range f.seen {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeAccount) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := seenRequest{
		method:       r.Method,
		path:         r.URL.Path,
		continuation: r.Header.Get("x-ms-continuation"),
		crossPart:    r.Header.Get("x-ms-documentdb-query-enablecrosspartition"),
		partitionKey: r.Header.Get("x-ms-documentdb-partitionkey"),
		isQuery:      strings.EqualFold(r.Header.Get("x-ms-documentdb-query"), "true"),
		autoscale:    r.Header.Get("x-ms-cosmos-offer-autopilot-settings"),
		body:         string(body),
	}
	f.mu.Lock()
	f.seen = append(f.seen, req)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		fmt.Fprintf(w, `{"id":"scratch-account",
			"writableLocations":[{"name":"West US","databaseAccountEndpoint":"%[1]s/"}],
			"readableLocations":[{"name":"West US","databaseAccountEndpoint":"%[1]s/"},{"name":"East US","databaseAccountEndpoint":"%[1]s/"}],
			"userConsistencyPolicy":{"defaultConsistencyLevel":"Session"}}`, f.srv.URL)
	case r.Method == http.MethodPost && (r.URL.Path == "/dbs" || strings.HasSuffix(r.URL.Path, "/colls")):
		f.create(w, r.URL.Path, req.body)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/docs") && req.isQuery:
		f.query(w, req)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/docs"):
		f.createItem(w, r.URL.Path, req.body)
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/docs/"):
		f.readItem(w, r.URL.Path)
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeAccount) create(w http.ResponseWriter, path, body string) {
	key := path + "|" + resourceID(body)
	f.mu.Lock()
	exists := f.existing[key]
	f.existing[key] = true
	f.mu.Unlock()
	if exists {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"Conflict","message":"Resource with specified id or name already exists."}`)
		return
	}
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, body)
}

func (f *fakeAccount) createItem(w http.ResponseWriter, path, body string) {
	key := path + "/" + resourceID(body)
	f.mu.Lock()
	_, exists := f.items[key]
	if !exists {
		f.items[key] = body
	}
	f.mu.Unlock()
	if exists {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"Conflict","message":"Entity with the specified id already exists in the system."}`)
		return
	}
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, body)
}

func (f *fakeAccount) readItem(w http.ResponseWriter, path string) {
	f.mu.Lock()
	body, ok := f.items[path]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"code":"NotFound","message":"Entity with the specified id does not exist in the system."}`)
		return
	}
	io.WriteString(w, body)
}

// query serves one entry of pages per request, chained by continuation tokens tok1, tok2, ...
func (f *fakeAccount) query(w http.ResponseWriter, req seenRequest) {
	idx := 0
	if req.continuation != "" {
		fmt.Sscanf(req.continuation, "tok%d", &idx)
	}
	if idx >= len(f.pages) {
		io.WriteString(w, `{"_rid":"r1","Documents":[],"_count":0}`)
		return
	}
	if idx+1 < len(f.pages) {
		w.Header().Set("x-ms-continuation", fmt.Sprintf("tok%d", idx+1))
	}
	fmt.Fprintf(w, `{"_rid":"r1","Documents":[%s],"_count":1}`, f.pages[idx])
}

func resourceID(body string) string {
	id, err := docstore.ItemID([]byte(body))
	if err != nil {
		return ""
	}
	return id
}

func TestCreateDatabaseAndContainerTolerateConflict(t *testing.T) {
	f := newFakeAccount(t)
	client := f.client(t)
	ctx := context.Background()

	props := docmodels.ContainerProperties{
		ID:               "products",
		PartitionKeyPath: "/categoryId",
		Throughput:       &docmodels.Throughput{MaxThroughput: 1000, Autoscale: true},
	}
	for i := 0; i < 2; i++ {
		db, err := client.CreateDatabaseIfNotExists(ctx, docmodels.DatabaseProperties{ID: "cosmicworks"})
		require.NoError(t, err, "attempt %d", i)
		assert.Equal(t, "cosmicworks", db.ID())

		container, err := db.CreateContainerIfNotExists(ctx, props)
		require.NoError(t, err, "attempt %d", i)
		assert.Equal(t, "products", container.ID())
		assert.Equal(t, "/categoryId", container.PartitionKeyPath())
	}

	assert.Len(t, f.requests(http.MethodPost, "/dbs"), 2)
	colls := f.requests(http.MethodPost, "/dbs/cosmicworks/colls")
	require.Len(t, colls, 2)
	assert.Contains(t, colls[0].autoscale, `"maxThroughput":1000`)
	assert.Contains(t, colls[0].body, `"/categoryId"`)
}

func TestCreateDatabaseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			fmt.Fprint(w, `{"writableLocations":[],"readableLocations":[]}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"code":"Forbidden","message":"Request blocked by Auth"}`)
	}))
	t.Cleanup(srv.Close)

	key := base64.StdEncoding.EncodeToString([]byte("k"))
	client, err := NewClient(Options{
		ConnectionString: "AccountEndpoint=" + srv.URL + "/;AccountKey=" + key + ";",
		MaxRetries:       -1,
		Transport:        srv.Client(),
	})
	require.NoError(t, err)

	_, err = client.CreateDatabaseIfNotExists(context.Background(), docmodels.DatabaseProperties{ID: "cosmicworks"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, statusCode(err))
	assert.False(t, docerrs.IsAlreadyExists(err))
}

func TestItemCreateAndReadErrors(t *testing.T) {
	f := newFakeAccount(t)
	client := f.client(t)
	ctx := context.Background()

	db, err := client.Database("cosmicworks")
	require.NoError(t, err)
	container, err := db.Container("products", "/categoryId")
	require.NoError(t, err)

	item := []byte(`{"id":"item1","name":"Bike","description":"fast","categoryId":"bikes"}`)
	require.NoError(t, container.CreateItem(ctx, "bikes", item))

	err = container.CreateItem(ctx, "bikes", item)
	assert.True(t, docerrs.IsAlreadyExists(err))

	creates := f.requests(http.MethodPost, "/dbs/cosmicworks/colls/products/docs")
	require.Len(t, creates, 2)
	assert.Equal(t, `["bikes"]`, creates[0].partitionKey)

	raw, err := container.ReadItem(ctx, "item1", "bikes")
	require.NoError(t, err)
	assert.JSONEq(t, string(item), string(raw))

	_, err = container.ReadItem(ctx, "missing", "bikes")
	assert.True(t, docerrs.IsNotFound(err))
}

func TestReadAllItemsFollowsContinuation(t *testing.T) {
	f := newFakeAccount(t)
	f.pages = []string{
		`{"id":"item1","categoryId":"bikes"}`,
		`{"id":"item2","categoryId":"helmets"}`,
	}
	client := f.client(t)

	db, err := client.Database("cosmicworks")
	require.NoError(t, err)
	container, err := db.Container("products", "/categoryId")
	require.NoError(t, err)

	items, err := container.ReadAllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Contains(t, string(items[0]), "item1")
	assert.Contains(t, string(items[1]), "item2")

	queries := f.requests(http.MethodPost, "/dbs/cosmicworks/colls/products/docs")
	require.Len(t, queries, 2)
	assert.Equal(t, "", queries[0].continuation)
	assert.Equal(t, "tok1", queries[1].continuation)
	for _, q := range queries {
		assert.Equal(t, "true", q.crossPart)
		assert.Contains(t, q.body, readAllQuery)
	}
}

func TestQueryItemsSendsParameters(t *testing.T) {
	f := newFakeAccount(t)
	f.pages = []string{`{"id":"item1","categoryId":"bikes"}`}
	client := f.client(t)

	db, err := client.Database("cosmicworks")
	require.NoError(t, err)
	container, err := db.Container("products", "/categoryId")
	require.NoError(t, err)

	pk := "bikes"
	items, err := container.QueryItems(context.Background(), &docmodels.QueryParams{
		Query:        "SELECT * FROM c WHERE c.categoryId = @categoryId",
		Parameters:   []docmodels.QueryParameter{{Name: "@categoryId", Value: "bikes"}},
		PartitionKey: &pk,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	queries := f.requests(http.MethodPost, "/dbs/cosmicworks/colls/products/docs")
	require.Len(t, queries, 1)
	assert.Equal(t, `["bikes"]`, queries[0].partitionKey)
	assert.Contains(t, queries[0].body, `"@categoryId"`)
}

func TestClientAccountInfo(t *testing.T) {
	f := newFakeAccount(t)
	client := f.client(t)

	info, err := client.AccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"West US", "East US"}, info.ReadableLocationNames())
	assert.NotEmpty(t, f.requests(http.MethodGet, "/"))
}
