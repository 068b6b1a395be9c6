/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	docerrs "github.com/suparena/docscratch/errors"
)

// mapError translates DynamoDB exceptions into the docscratch error types.
func mapError(kind, key string, err error) error {
	var notFound *types.ResourceNotFoundException
	var conditional *types.ConditionalCheckFailedException
	var inUse *types.ResourceInUseException
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded

	switch {
	case errors.As(err, &notFound):
		return docerrs.WrapNotFound(kind, key, err)
	case errors.As(err, &conditional), errors.As(err, &inUse):
		return docerrs.WrapAlreadyExists(kind, key, err)
	case errors.As(err, &throughput), errors.As(err, &limit):
		return docerrs.NewThrottledError(fmt.Sprintf("%s %q", kind, key), err)
	}
	return fmt.Errorf("%s %q: %w", kind, key, err)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	if docerrs.IsThrottled(err) {
		return true
	}

	var internal *types.InternalServerError
	if errors.As(err, &internal) {
		return true
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}

	return false
}
