/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	docerrs "github.com/suparena/docscratch/errors"
)

// statusCode returns the HTTP status of a Cosmos DB response error, or 0.
func statusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}

// mapError translates a Cosmos DB error into the docscratch error types.
func mapError(kind, key string, err error) error {
	switch statusCode(err) {
	case http.StatusNotFound:
		return docerrs.WrapNotFound(kind, key, err)
	case http.StatusConflict:
		return docerrs.WrapAlreadyExists(kind, key, err)
	case http.StatusTooManyRequests:
		return docerrs.NewThrottledError(fmt.Sprintf("%s %q", kind, key), err)
	}
	return fmt.Errorf("%s %q: %w", kind, key, err)
}

// isRetryableError determines if a Cosmos DB error is worth retrying
func isRetryableError(err error) bool {
	if docerrs.IsThrottled(err) {
		return true
	}
	switch statusCode(err) {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		449, // Retry With
		http.StatusInternalServerError,
		http.StatusServiceUnavailable:
		return true
	}
	return false
}
