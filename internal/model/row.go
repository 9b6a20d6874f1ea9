package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Row is an ordered record of field name to value.
// It is used both for entities extracted from structured data (where every
// value is a string) and for result rows, which may also carry the integer
// page context.
//
// A key may be present with a nil value. Such a key is "undefined": it
// occupies a column in delimited output but is omitted from JSON and YAML.
// Direct target rows carry an undefined page this way.
type Row struct {
	// keys holds field names in first-set order.
	keys []string

	// values maps field names to their current value.
	values map[string]any
}

// NewRow creates an empty Row.
func NewRow() *Row {
	return &Row{
		keys:   make([]string, 0),
		values: make(map[string]any),
	}
}

// Set assigns a value. A new key is appended to the key order; an existing
// key keeps its position.
func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns the value for key when it is a string.
func (r *Row) String(key string) (string, bool) {
	s, ok := r.values[key].(string)
	return s, ok
}

// Has reports whether key is present, defined or not.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Defined reports whether key is present with a non-nil value.
func (r *Row) Defined(key string) bool {
	v, ok := r.values[key]
	return ok && v != nil
}

// Keys returns the field names in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Row) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the row as an object in key order, skipping undefined keys.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range r.keys {
		v := r.values[k]
		if v == nil {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, err := MarshalJSONValue(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := MarshalJSONValue(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the row as a mapping in key order, skipping undefined keys.
func (r *Row) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.keys {
		v := r.values[k]
		if v == nil {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}

		valueNode := &yaml.Node{}
		switch tv := v.(type) {
		case string:
			valueNode.Kind = yaml.ScalarNode
			valueNode.Tag = "!!str"
			valueNode.Value = tv
		case int:
			valueNode.Kind = yaml.ScalarNode
			valueNode.Tag = "!!int"
			valueNode.Value = strconv.Itoa(tv)
		default:
			if err := valueNode.Encode(v); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// MarshalJSONValue encodes v as compact JSON without escaping HTML characters.
func MarshalJSONValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
