/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// render encodes v in the requested output format.
func render(format string, v any) ([]byte, error) {
	switch format {
	case formatJSON, "":
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	case formatYAML:
		// Round-trip through JSON so json tags and raw items shape the YAML.
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var generic any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(numbersToYAML(generic))
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// numbersToYAML converts json.Number values so yaml.v3 emits them unquoted.
func numbersToYAML(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		for k, e := range tv {
			tv[k] = numbersToYAML(e)
		}
	case []any:
		for i, e := range tv {
			tv[i] = numbersToYAML(e)
		}
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i
		}
		if f, err := tv.Float64(); err == nil {
			return f
		}
	}
	return v
}

func (a *app) emit(w io.Writer, v any) error {
	raw, err := render(a.output, v)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// rawItems lets JSON items pass through encoding unchanged.
func rawItems(items [][]byte) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
