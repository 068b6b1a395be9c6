/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docmodels

// DatabaseProperties describes a database resource to create.
type DatabaseProperties struct {
	// ID is the database name.
	ID string `json:"id" yaml:"id"`
}

// Throughput describes the request units provisioned for a container.
type Throughput struct {
	// MaxThroughput is the autoscale ceiling, or the fixed RU/s when Autoscale is false.
	MaxThroughput int32 `json:"maxThroughput" yaml:"maxThroughput"`
	// Autoscale selects autoscale throughput instead of a manual value.
	Autoscale bool `json:"autoscale" yaml:"autoscale"`
}

// ContainerProperties describes a partitioned container to create.
type ContainerProperties struct {
	// ID is the container name.
	ID string `json:"id" yaml:"id"`
	// PartitionKeyPath is the attribute path items are partitioned on, e.g. "/categoryId".
	PartitionKeyPath string `json:"partitionKeyPath" yaml:"partitionKeyPath"`
	// Throughput is optional; nil leaves the service default.
	Throughput *Throughput `json:"throughput,omitempty" yaml:"throughput,omitempty"`
}

// QueryParameter binds a value to a query placeholder.
// Backends with positional parameters ignore Name and use the slice order.
type QueryParameter struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// QueryParams defines parameters for a query against a single container.
type QueryParams struct {
	// Query is the query text in the backend's dialect.
	Query string
	// Parameters are bound to placeholders in Query.
	Parameters []QueryParameter
	// PartitionKey narrows the query to one logical partition when set.
	PartitionKey *string
	// PageSize is a hint for items per page; zero leaves the backend default.
	PageSize int32
}

// Location is one region of a database account.
type Location struct {
	Name     string `json:"name"`
	Endpoint string `json:"databaseAccountEndpoint"`
}

// AccountInfo is the account metadata reported by the service.
type AccountInfo struct {
	ID                string     `json:"id"`
	ReadableLocations []Location `json:"readableLocations"`
	WritableLocations []Location `json:"writableLocations"`
	ConsistencyLevel  string     `json:"consistencyLevel,omitempty"`
}

// ReadableLocationNames returns the names of the readable locations in order.
func (a *AccountInfo) ReadableLocationNames() []string {
	names := make([]string, 0, len(a.ReadableLocations))
	for _, l := range a.ReadableLocations {
		names = append(names, l.Name)
	}
	return names
}
