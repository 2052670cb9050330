// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content owns the site content document ("sitemap"): its
// canonical shape, and its persistence in the database and on disk.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Document is the JSON tree holding every page's content and the site settings.
// Values are whatever encoding/json produces with UseNumber: map[string]any,
// []any, string, json.Number, bool or nil.
type Document map[string]any

// Lookup walks nested objects and returns the value at path, or nil.
func (d Document) Lookup(path ...string) any {
	var cur any = map[string]any(d)
	for _, key := range path {
		obj, ok := asObject(cur)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// String returns the value at path coerced to a string ("" when absent).
func (d Document) String(path ...string) string {
	return toString(d.Lookup(path...))
}

// Object returns the object at path, or nil when absent or not an object.
func (d Document) Object(path ...string) map[string]any {
	obj, _ := asObject(d.Lookup(path...))
	return obj
}

// List returns the array at path, or nil when absent or not an array.
func (d Document) List(path ...string) []any {
	list, _ := d.Lookup(path...).([]any)
	return list
}

// Decode parses a single JSON value, keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding content: trailing data after JSON value")
	}
	return v, nil
}

// Encode serializes a document as compact JSON followed by a newline.
// HTML characters are not escaped so the output matches what browsers produce.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	return buf.Bytes(), nil
}

// asObject returns v as a plain map when it is a JSON object.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Document:
		return map[string]any(t), true
	default:
		return nil, false
	}
}

// toString coerces scalar JSON values to strings; objects, arrays and null become "".
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ToString is the exported form of the scalar coercion used by the normalizer.
func ToString(v any) string {
	return toString(v)
}

// AsObject is the exported form of the object check used by the normalizer.
func AsObject(v any) map[string]any {
	obj, _ := asObject(v)
	return obj
}
