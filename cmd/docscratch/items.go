/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/docscratch/docmodels"
	"github.com/suparena/docscratch/docstore"
	"github.com/suparena/docscratch/registry"
)

// validator is implemented by registered item types that check their fields.
type validator interface {
	Validate() error
}

func (a *app) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Create or read a single item",
	}

	var createType, dataFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the sample item, or the item read from --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, runner, container, err := a.container(ctx)
			if err != nil {
				return err
			}
			if dataFile == "" {
				return runner.CreateSampleItem(ctx, container)
			}

			raw, err := os.ReadFile(dataFile)
			if err != nil {
				return fmt.Errorf("read item file: %w", err)
			}
			if createType != "" {
				if err := validateAs(createType, raw); err != nil {
					return err
				}
			}
			pk, err := docstore.PartitionKeyValue(raw, container.PartitionKeyPath())
			if err != nil {
				return err
			}
			id, err := docstore.ItemID(raw)
			if err != nil {
				return err
			}
			if err := container.CreateItem(ctx, pk, raw); err != nil {
				return err
			}
			a.logger.Info(fmt.Sprintf("Item created: %s", id))
			return nil
		},
	}
	create.Flags().StringVar(&dataFile, "file", "", "JSON file holding the item to create")
	create.Flags().StringVar(&createType, "type", "", "validate the item as a registered type ("+strings.Join(registry.RegisteredTypes(), ", ")+")")

	var readType string
	read := &cobra.Command{
		Use:   "read [id] [partition-key]",
		Short: "Read an item by id and partition key (default: the sample item)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, container, err := a.container(ctx)
			if err != nil {
				return err
			}
			id, pk := cfg.SampleItemID, cfg.SamplePartitionKey
			if len(args) > 0 {
				id = args[0]
			}
			if len(args) > 1 {
				pk = args[1]
			}

			raw, err := container.ReadItem(ctx, id, pk)
			if err != nil {
				return err
			}
			a.logger.Info(fmt.Sprintf("Item read: %s", id))
			if readType == "" {
				return a.emit(a.out, json.RawMessage(raw))
			}
			fn, err := registry.GetUnmarshalFunc(readType)
			if err != nil {
				return err
			}
			v, err := fn(raw)
			if err != nil {
				return fmt.Errorf("decode item as %s: %w", readType, err)
			}
			return a.emit(a.out, v)
		},
	}
	read.Flags().StringVar(&readType, "type", "", "decode the item as a registered type ("+strings.Join(registry.RegisteredTypes(), ", ")+")")

	cmd.AddCommand(create, read)
	return cmd
}

func validateAs(typeName string, raw []byte) error {
	fn, err := registry.GetUnmarshalFunc(typeName)
	if err != nil {
		return err
	}
	v, err := fn(raw)
	if err != nil {
		return fmt.Errorf("decode item as %s: %w", typeName, err)
	}
	if val, ok := v.(validator); ok {
		return val.Validate()
	}
	return nil
}

func (a *app) itemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Work with all items of the container",
	}

	var stream bool
	var pageSize int32
	list := &cobra.Command{
		Use:   "list",
		Short: "List every item in the container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, _, container, err := a.container(ctx)
			if err != nil {
				return err
			}
			if !stream {
				items, err := container.ReadAllItems(ctx)
				if err != nil {
					return err
				}
				return a.emit(a.out, rawItems(items))
			}

			results := container.Stream(ctx, nil,
				docmodels.WithPageSize(pageSize),
				docmodels.WithProgressHandler(func(p docmodels.StreamProgress) {
					a.logger.Debug("stream progress",
						zap.Int64("items", p.ItemsProcessed),
						zap.Int("pages", p.PagesProcessed),
						zap.Float64("itemsPerSecond", p.CurrentRate))
				}),
			)
			var items [][]byte
			for r := range results {
				if r.Error != nil {
					return r.Error
				}
				items = append(items, r.Item)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.emit(a.out, rawItems(items))
		},
	}
	list.Flags().BoolVar(&stream, "stream", false, "page through the items in the background")
	list.Flags().Int32Var(&pageSize, "page-size", docmodels.DefaultStreamOptions().PageSize, "items per page when streaming")

	cmd.AddCommand(list)
	return cmd
}
