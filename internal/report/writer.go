package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Format is an output encoding.
type Format string

// Supported output formats.
const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatMarkdown}

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a flag value into a Format. "yml" and "md" are accepted
// as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	default:
		if slices.Contains(Formats, Format(f)) {
			return Format(f), nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return slices.Contains(Formats, f)
}

// Writer encodes result data in one output format.
// Data is a row slice, a struct, a slice of structs or any JSON-encodable value.
type Writer interface {
	// Write encodes data to the configured destination.
	Write(data any) error
}

// NewWriter returns the Writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatYAML:
		return NewYAMLWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
