// Package models defines the records exchanged with the marketplace backend.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque record identifier. The backend sends it either as a JSON
// string or as a JSON number; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(data), err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text.
func (id ID) String() string {
	return string(id)
}
