package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

func TestKeyMapRegistry(t *testing.T) {
	_, ok := GetKeyMap[widget]()
	assert.False(t, ok)

	keyMap := map[string]string{IDKey: "{id}", PartitionKeyKey: "{kind}"}
	RegisterKeyMap[widget](keyMap)

	got, ok := GetKeyMap[widget]()
	require.True(t, ok)
	assert.Equal(t, "{kind}", got[PartitionKeyKey])

	// Callers cannot mutate the registered map through either copy.
	keyMap[PartitionKeyKey] = "{other}"
	got[IDKey] = "{other}"
	again, _ := GetKeyMap[widget]()
	assert.Equal(t, "{id}", again[IDKey])
	assert.Equal(t, "{kind}", again[PartitionKeyKey])

	_, ok = GetKeyMap[*widget]()
	assert.False(t, ok, "pointer types are registered separately")
}

func TestTypeRegistry(t *testing.T) {
	RegisterType("widget", func(raw []byte) (any, error) {
		var w widget
		err := json.Unmarshal(raw, &w)
		return &w, err
	})

	fn, err := GetUnmarshalFunc("widget")
	require.NoError(t, err)
	v, err := fn([]byte(`{"id":"w1","kind":"gear"}`))
	require.NoError(t, err)
	assert.Equal(t, &widget{ID: "w1", Kind: "gear"}, v)

	assert.Contains(t, RegisteredTypes(), "widget")

	_, err = GetUnmarshalFunc("gadget")
	assert.Error(t, err)

	assert.Panics(t, func() {
		RegisterType("widget", func([]byte) (any, error) { return nil, nil })
	})
}
