/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cosmos

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/suparena/docscratch/docmodels"
	docerrs "github.com/suparena/docscratch/errors"
)

const (
	moduleName = "docscratch/cosmos"
	apiVersion = "2018-12-31"
)

// accountClient reads the database account resource, which azcosmos does not expose.
type accountClient struct {
	endpoint string
	pipeline runtime.Pipeline
}

type accountResponse struct {
	ID                    string               `json:"id"`
	WritableLocations     []docmodels.Location `json:"writableLocations"`
	ReadableLocations     []docmodels.Location `json:"readableLocations"`
	UserConsistencyPolicy struct {
		DefaultConsistencyLevel string `json:"defaultConsistencyLevel"`
	} `json:"userConsistencyPolicy"`
}

func newAccountClient(cs ConnectionString, opts *policy.ClientOptions) (*accountClient, error) {
	key, err := base64.StdEncoding.DecodeString(cs.Key)
	if err != nil {
		return nil, docerrs.NewValidationError("connectionString", "AccountKey is not valid base64")
	}
	auth := &masterKeyPolicy{key: key, now: time.Now}
	return &accountClient{
		endpoint: cs.Endpoint,
		pipeline: runtime.NewPipeline(moduleName, "v1", runtime.PipelineOptions{
			PerRetry: []policy.Policy{auth},
		}, opts),
	}, nil
}

func (a *accountClient) get(ctx context.Context) (*docmodels.AccountInfo, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, a.endpoint)
	if err != nil {
		return nil, fmt.Errorf("build account request: %w", err)
	}
	req.Raw().Header.Set("x-ms-version", apiVersion)
	req.Raw().Header.Set("Accept", "application/json")

	resp, err := a.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var body accountResponse
	if err := runtime.UnmarshalAsJSON(resp, &body); err != nil {
		return nil, fmt.Errorf("decode account response: %w", err)
	}
	return &docmodels.AccountInfo{
		ID:                body.ID,
		ReadableLocations: body.ReadableLocations,
		WritableLocations: body.WritableLocations,
		ConsistencyLevel:  body.UserConsistencyPolicy.DefaultConsistencyLevel,
	}, nil
}

// masterKeyPolicy signs every try with the account key.
type masterKeyPolicy struct {
	key []byte
	now func() time.Time
}

func (p *masterKeyPolicy) Do(req *policy.Request) (*http.Response, error) {
	raw := req.Raw()
	date := p.now().UTC().Format(http.TimeFormat)
	raw.Header.Set("x-ms-date", date)
	raw.Header.Set("Authorization", masterKeySignature(p.key, raw.Method, "", "", date))
	return req.Next()
}

// masterKeySignature builds the master-key authorization token for a request.
// The account resource has an empty resource type and link.
func masterKeySignature(key []byte, verb, resourceType, resourceLink, date string) string {
	payload := strings.ToLower(verb) + "\n" +
		strings.ToLower(resourceType) + "\n" +
		resourceLink + "\n" +
		strings.ToLower(date) + "\n" +
		"" + "\n"

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return url.QueryEscape("type=master&ver=1.0&sig=" + sig)
}
