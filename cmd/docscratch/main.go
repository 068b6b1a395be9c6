/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command docscratch runs document database scratch requests against Azure
// Cosmos DB, Amazon DynamoDB or an in-memory store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
