// Package models defines the typed items stored by docscratch and registers
// their key maps and decoders on import.
package models
