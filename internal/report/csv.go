package report

import (
	"io"

	"github.com/reliverse/relparse/internal/tabular"
)

// CSVWriter outputs data as delimited text.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write tabulates data and encodes it without a trailing newline.
func (w *CSVWriter) Write(data any) error {
	rows, err := Tabulate(data)
	if err != nil {
		return err
	}
	return tabular.Encode(w.output, rows)
}
