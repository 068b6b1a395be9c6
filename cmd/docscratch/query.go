/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/clipcopy"
	"github.com/suparena/docscratch/docmodels"
)

func (a *app) queryCommand() *cobra.Command {
	var (
		params       []string
		partitionKey string
		allPartition bool
		copyOutput   bool
	)
	cmd := &cobra.Command{
		Use:   "query [statement]",
		Short: "Run a query against the container (default: items in the bikes category)",
		Long: `Runs a query and prints the matching items.

Without a statement the configured query is used, which defaults to
  SELECT * FROM c WHERE c.categoryId = @categoryId   (cosmos, memory)
  SELECT * FROM "{table}" WHERE categoryId = ?       (dynamodb)
with the parameter set to "bikes".

Parameters are given as --param name=value. Values that parse as numbers or
booleans are sent as such. With --copy the printed result is also copied to
the system clipboard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, runner, container, err := a.container(ctx)
			if err != nil {
				return err
			}

			query := cfg.QueryParams()
			if len(args) == 1 {
				query = &docmodels.QueryParams{Query: args[0]}
			}
			if len(params) > 0 {
				query.Parameters = nil
				for _, p := range params {
					qp, err := parseParam(p)
					if err != nil {
						return err
					}
					query.Parameters = append(query.Parameters, qp)
				}
			}
			switch {
			case allPartition:
				query.PartitionKey = nil
			case partitionKey != "":
				query.PartitionKey = &partitionKey
			}

			items, err := runner.QueryItems(ctx, container, query)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := a.emit(&buf, items); err != nil {
				return err
			}
			if _, err := a.out.Write(buf.Bytes()); err != nil {
				return err
			}
			if !copyOutput {
				return nil
			}

			button := clipcopy.New(
				clipcopy.WithLogger(a.logger),
				clipcopy.WithOnChange(func(label string) {
					a.logger.Info("Copy button", zap.String("label", label))
				}),
			)
			return button.Click(buf.String())
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&params, "param", "p", nil, "query parameter as name=value (repeatable)")
	flags.StringVar(&partitionKey, "partition-key", "", "restrict the query to one partition")
	flags.BoolVar(&allPartition, "all-partitions", false, "query across all partitions")
	flags.BoolVar(&copyOutput, "copy", false, "copy the result to the clipboard")
	return cmd
}

// parseParam splits name=value, typing numeric and boolean values.
func parseParam(s string) (docmodels.QueryParameter, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return docmodels.QueryParameter{}, fmt.Errorf("invalid parameter %q, expected name=value", s)
	}
	p := docmodels.QueryParameter{Name: name, Value: value}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		p.Value = i
	} else if f, err := strconv.ParseFloat(value, 64); err == nil {
		p.Value = f
	} else if b, err := strconv.ParseBool(value); err == nil {
		p.Value = b
	}
	return p, nil
}
