package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnwrapList extracts the record array from a list response. Accepted shapes:
//
//	[...]
//	{"data": [...]}
//	{"data": {"<key>": [...]}}
//	{"data": {"items": [...]}}
//	{"<key>": [...]}
//	{"items": [...]}
//
// Any other shape yields an empty slice. An array whose elements do not
// decode into T is an error.
func UnwrapList[T any](body []byte, key string) ([]T, error) {
	raw := findArray(body, key)
	items := []T{}
	if raw == nil {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return items, nil
}

func findArray(body []byte, key string) json.RawMessage {
	if kind(body) == '[' {
		return body
	}
	root := object(body)
	if root == nil {
		return nil
	}

	if data, ok := root["data"]; ok {
		switch kind(data) {
		case '[':
			return data
		case '{':
			inner := object(data)
			for _, name := range []string{key, "items"} {
				if v, ok := inner[name]; ok && kind(v) == '[' {
					return v
				}
			}
		}
		return nil
	}

	for _, name := range []string{key, "items"} {
		if v, ok := root[name]; ok && kind(v) == '[' {
			return v
		}
	}
	return nil
}

// UnwrapRecord extracts a single record object from a create or update
// response. Accepted shapes, first match wins:
//
//	{"data": {"<key>": {...}}}
//	{"data": {...}}
//	{"<key>": {...}}
//	{...}
//
// Only objects carrying an "id" count; {"success": true} reports false.
func UnwrapRecord(body []byte, key string) (json.RawMessage, bool) {
	root := object(body)
	if root == nil {
		return nil, false
	}

	if data, ok := root["data"]; ok && kind(data) == '{' {
		inner := object(data)
		if v, ok := inner[key]; ok && hasID(v) {
			return v, true
		}
		if hasID(data) {
			return data, true
		}
	}
	if v, ok := root[key]; ok && hasID(v) {
		return v, true
	}
	if hasID(body) {
		return body, true
	}
	return nil, false
}

// mergeRecord overlays the top-level fields of patch onto current
func mergeRecord[T any](current T, patch json.RawMessage) (T, error) {
	var merged T

	base, err := json.Marshal(current)
	if err != nil {
		return merged, fmt.Errorf("failed to encode record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return merged, fmt.Errorf("failed to encode record: %w", err)
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return merged, fmt.Errorf("failed to decode response: %w", err)
	}
	for k, v := range overlay {
		fields[k] = v
	}

	combined, err := json.Marshal(fields)
	if err != nil {
		return merged, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(combined, &merged); err != nil {
		return merged, fmt.Errorf("failed to decode response: %w", err)
	}
	return merged, nil
}

func hasID(raw json.RawMessage) bool {
	obj := object(raw)
	if obj == nil {
		return false
	}
	id, ok := obj["id"]
	return ok && !bytes.Equal(bytes.TrimSpace(id), []byte("null"))
}

func object(raw []byte) map[string]json.RawMessage {
	if kind(raw) != '{' {
		return nil
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

// kind returns the first significant byte of a JSON value
func kind(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
