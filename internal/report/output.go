package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Destination selects where encoded output goes.
type Destination struct {
	// Stdout forces console output even when File is set.
	Stdout bool

	// File is the output path. Parent directories are created as needed.
	File string

	// Title heads markdown output. Other formats ignore it.
	Title string
}

// Encode writes data to w in the given format. Markdown options apply only
// to FormatMarkdown.
func Encode(w io.Writer, format Format, data any, opts ...MarkdownWriterOption) error {
	if format == FormatMarkdown {
		return NewMarkdownWriter(w, opts...).Write(data)
	}
	writer, err := NewWriter(format, w)
	if err != nil {
		return err
	}
	return writer.Write(data)
}

// Write encodes data and sends it to dest. Stdout output always ends with a
// newline; file output is written exactly as encoded.
func Write(stdout io.Writer, dest Destination, format Format, data any) error {
	var opts []MarkdownWriterOption
	if dest.Title != "" {
		opts = append(opts, WithHeading(dest.Title))
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, data, opts...); err != nil {
		return fmt.Errorf("failed to encode %s output: %w", format, err)
	}

	if dest.File != "" && !dest.Stdout {
		return writeFile(dest.File, buf.Bytes())
	}

	out := buf.Bytes()
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err := stdout.Write(out)
	return err
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
