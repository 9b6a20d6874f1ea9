package report

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONWriter encodes data as JSON. Characters such as < and & are written
// literally.
type JSONWriter struct {
	baseWriter
	pretty bool
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.pretty, w.prefix, w.indent = true, prefix, indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter returns a compact JSONWriter unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes data followed by a newline. Nothing is written on error.
func (w *JSONWriter) Write(data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w.output)
	return err
}
