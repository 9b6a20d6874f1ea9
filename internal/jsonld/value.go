package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reliverse/relparse/internal/model"
	"gopkg.in/yaml.v3"
)

// Kind identifies which variant of the union a Value holds.
type Kind int

const (
	// KindNull is the JSON null literal.
	KindNull Kind = iota
	// KindScalar is a string, number or boolean.
	KindScalar
	// KindSequence is a JSON array.
	KindSequence
	// KindMapping is a JSON object with ordered keys.
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a structured-data node: null, scalar, sequence or mapping.
// Mapping keys keep document order. The zero Value is null.
type Value struct {
	kind Kind

	// scalar is a string, json.Number or bool.
	scalar any

	// items holds sequence elements.
	items []Value

	// keys and fields hold mapping entries.
	keys   []string
	fields map[string]Value
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the scalar when it is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	s, ok := v.scalar.(string)
	return s, ok
}

// Items returns the elements of a sequence.
func (v Value) Items() []Value {
	return v.items
}

// Keys returns the keys of a mapping in document order.
func (v Value) Keys() []string {
	return v.keys
}

// Field returns the mapping entry for key.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Text renders the value the way a loosely typed language coerces it to a
// string: null is empty, sequences join their elements with commas and
// mappings become "[object Object]".
func (v Value) Text() string {
	switch v.kind {
	case KindScalar:
		switch s := v.scalar.(type) {
		case string:
			return s
		case json.Number:
			return s.String()
		case bool:
			if s {
				return "true"
			}
			return "false"
		}
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ",")
	case KindMapping:
		return "[object Object]"
	}
	return ""
}

// Parse decodes a single JSON document into a Value.
// Trailing content after the document is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: unexpected data after top-level value", ErrParse)
	}
	return v, nil
}

// decodeValue reads one value from the token stream.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			seq := Value{kind: KindSequence, items: make([]Value, 0)}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				seq.items = append(seq.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return seq, nil
		case '{':
			m := Value{kind: KindMapping, keys: make([]string, 0), fields: make(map[string]Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				field, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				// A repeated key keeps its first position and its last value.
				if _, dup := m.fields[key]; !dup {
					m.keys = append(m.keys, key)
				}
				m.fields[key] = field
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return m, nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case nil:
		return Value{}, nil
	default:
		return Value{kind: KindScalar, scalar: t}, nil
	}
}

// MarshalJSON encodes v compactly, keeping mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindScalar:
		return model.MarshalJSONValue(v.scalar)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := model.MarshalJSONValue(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			b, err := v.fields[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
}

// MarshalYAML encodes v as a YAML node, keeping mapping key order.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindScalar:
		n := &yaml.Node{Kind: yaml.ScalarNode}
		switch s := v.scalar.(type) {
		case string:
			n.Tag = "!!str"
			n.Value = s
		case json.Number:
			if _, err := s.Int64(); err == nil {
				n.Tag = "!!int"
			} else {
				n.Tag = "!!float"
			}
			n.Value = s.String()
		case bool:
			n.Tag = "!!bool"
			n.Value = v.Text()
		}
		return n
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			n.Content = append(n.Content, item.yamlNode())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				v.fields[k].yamlNode(),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
