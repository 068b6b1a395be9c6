/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/suparena/docscratch/docmodels"
)

// PageFunc fetches the page that starts at continuation; a nil continuation is the first page.
// A nil next token means there are no more pages.
type PageFunc func(ctx context.Context, continuation *string, pageSize int32) (items [][]byte, next *string, err error)

// maxHandledFailures bounds how often one page is re-fetched after the error handler asked to continue.
const maxHandledFailures = 3

// CollectPages fetches every page in order and returns all items.
func CollectPages(ctx context.Context, fetch PageFunc, pageSize int32) ([][]byte, error) {
	var all [][]byte
	var token *string
	for {
		items, next, err := fetch(ctx, token, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == nil || *next == "" {
			return all, nil
		}
		token = next
	}
}

// StreamPages streams the items returned by fetch with configurable options.
// Retryable page errors are retried with a linear backoff before being reported.
func StreamPages(ctx context.Context, fetch PageFunc, retryable func(error) bool, opts ...docmodels.StreamOption) <-chan docmodels.StreamResult {
	options := docmodels.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.BufferSize < 0 {
		options.BufferSize = 0
	}

	resultCh := make(chan docmodels.StreamResult, options.BufferSize)
	go streamWorker(ctx, fetch, retryable, options, resultCh)
	return resultCh
}

func streamWorker(
	ctx context.Context,
	fetch PageFunc,
	retryable func(error) bool,
	options docmodels.StreamOptions,
	resultCh chan<- docmodels.StreamResult,
) {
	defer close(resultCh)

	var itemIndex int64
	var pageNumber int
	startTime := time.Now()
	var errs []error
	var mu sync.Mutex

	reportProgress := func(next *string) {
		if options.ProgressHandler == nil {
			return
		}
		mu.Lock()
		recorded := append([]error(nil), errs...)
		mu.Unlock()

		progress := docmodels.StreamProgress{
			ItemsProcessed:    atomic.LoadInt64(&itemIndex),
			PagesProcessed:    pageNumber,
			ContinuationToken: next,
			Errors:            recorded,
			StartTime:         startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
		}
		options.ProgressHandler(progress)
	}

	sendError := func(err error) {
		select {
		case <-ctx.Done():
		case resultCh <- docmodels.StreamResult{
			Error: err,
			Meta: docmodels.StreamMeta{
				Index:      atomic.LoadInt64(&itemIndex),
				PageNumber: pageNumber,
				Timestamp:  time.Now(),
			},
		}:
		}
	}

	var token *string
	handled := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		items, next, err := fetchWithRetry(ctx, fetch, retryable, token, options)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if options.ErrorHandler == nil || !options.ErrorHandler(err) || handled >= maxHandledFailures {
				sendError(fmt.Errorf("page %d failed: %w", pageNumber+1, err))
				return
			}
			handled++
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			continue
		}
		handled = 0
		pageNumber++

		for _, item := range items {
			result := docmodels.StreamResult{
				Item: item,
				Meta: docmodels.StreamMeta{
					Index:      atomic.LoadInt64(&itemIndex),
					PageNumber: pageNumber,
					Timestamp:  time.Now(),
				},
			}
			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
			atomic.AddInt64(&itemIndex, 1)
		}

		reportProgress(next)
		if next == nil || *next == "" {
			break
		}
		token = next
	}

	reportProgress(nil)
}

func fetchWithRetry(
	ctx context.Context,
	fetch PageFunc,
	retryable func(error) bool,
	token *string,
	options docmodels.StreamOptions,
) ([][]byte, *string, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		items, next, err := fetch(ctx, token, options.PageSize)
		if err == nil {
			return items, next, nil
		}
		lastErr = err

		if retryable == nil || !retryable(err) {
			return nil, nil, err
		}

		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, nil, fmt.Errorf("failed after %d retries: %w", options.MaxRetries, lastErr)
}
