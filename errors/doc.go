/*
Package errors provides semantic error types shared by every docscratch backend.

Backends translate their service errors (Cosmos DB status codes, DynamoDB
exception types) into these types so callers can branch on the outcome
without importing a cloud SDK.

Common Errors:

	var (
	    ErrNotFound      = errors.New("resource not found")
	    ErrAlreadyExists = errors.New("resource already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrThrottled     = errors.New("request throttled")
	    ErrNoKeyMap      = errors.New("no key map found for type")
	)

Usage:

	raw, err := container.ReadItem(ctx, "item1", "bikes")
	if err != nil {
	    if errors.IsNotFound(err) {
	        return nil, fmt.Errorf("item %s does not exist", "item1")
	    }
	    return nil, err
	}

The typed errors keep the backend error as their cause, so errors.As still
reaches an *azcore.ResponseError or a DynamoDB exception when needed.
*/
package errors
