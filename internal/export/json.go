// Package export writes a resource's filtered records to CSV or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Version of the JSON export document
const Version = "1"

// Filter records the filters active when the export was taken
type Filter struct {
	Query    string            `json:"query,omitempty"`
	Selected map[string]string `json:"selected,omitempty"`
}

// Document is the JSON export envelope
type Document[T any] struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Source     string    `json:"source"`
	Resource   string    `json:"resource"`
	Filter     *Filter   `json:"filter,omitempty"`
	Count      int       `json:"count"`
	Records    []T       `json:"records"`
}

// NewDocument wraps records for export
func NewDocument[T any](source, resource string, filter *Filter, records []T) Document[T] {
	if records == nil {
		records = []T{}
	}
	if filter != nil && filter.Query == "" && len(filter.Selected) == 0 {
		filter = nil
	}
	return Document[T]{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Source:     source,
		Resource:   resource,
		Filter:     filter,
		Count:      len(records),
		Records:    records,
	}
}

// JSON encodes doc with indentation
func JSON[T any](writer io.Writer, doc Document[T]) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
