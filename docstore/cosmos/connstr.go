/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"net/url"
	"strings"

	"github.com/suparena/docscratch/errors"
)

// ConnectionString holds the parts of an account connection string.
type ConnectionString struct {
	Endpoint string
	Key      string
}

// ParseConnectionString parses "AccountEndpoint=https://...;AccountKey=...;".
// Keys are matched case-insensitively and unknown keys are ignored.
func ParseConnectionString(s string) (ConnectionString, error) {
	var cs ConnectionString
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Account keys are base64 and may end in '=' padding, so only split on the first '='.
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return ConnectionString{}, errors.NewValidationError("connectionString", "segments must be key=value pairs")
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "accountendpoint":
			cs.Endpoint = strings.TrimSpace(value)
		case "accountkey":
			cs.Key = strings.TrimSpace(value)
		}
	}

	if cs.Endpoint == "" {
		return ConnectionString{}, errors.NewValidationError("connectionString", "AccountEndpoint is missing")
	}
	if cs.Key == "" {
		return ConnectionString{}, errors.NewValidationError("connectionString", "AccountKey is missing")
	}
	u, err := url.Parse(cs.Endpoint)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return ConnectionString{}, errors.NewValidationError("connectionString", "AccountEndpoint must be an http(s) URL")
	}
	return cs, nil
}
