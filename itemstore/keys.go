/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package itemstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	docerrs "github.com/suparena/docscratch/errors"
)

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// toDocument converts an entity into its JSON field map.
func toDocument(entity any) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, docerrs.NewValidationError("entity", "must encode to a JSON object")
	}
	return doc, nil
}

// expandTemplate replaces each {field} macro with the document's value for that field.
// Missing, null and non-scalar fields expand to the empty string.
func expandTemplate(template string, doc map[string]any) string {
	return macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		key := strings.Trim(macro, "{}")
		switch v := doc[key].(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		case bool:
			return fmt.Sprintf("%v", v)
		default:
			return ""
		}
	})
}

// expandKeyMap expands every template of the key map against the document.
func expandKeyMap(keyMap map[string]string, doc map[string]any) map[string]string {
	res := make(map[string]string, len(keyMap))
	for name, template := range keyMap {
		res[name] = expandTemplate(template, doc)
	}
	return res
}
