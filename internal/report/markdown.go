package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/reliverse/relparse/internal/tabular"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs data as a GitHub-flavored markdown table.
type MarkdownWriter struct {
	baseWriter

	// heading is written as an H2 above the table when set.
	heading string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithHeading sets the heading written above the table. It is title-cased.
func WithHeading(heading string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.heading = cases.Title(language.English).String(heading)
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write tabulates data and renders it as a table.
func (w *MarkdownWriter) Write(data any) error {
	rows, err := Tabulate(data)
	if err != nil {
		return err
	}

	md := markdown.NewMarkdown(w.output)
	if w.heading != "" {
		md.H2(w.heading)
		md.PlainText("")
	}

	if len(rows) == 0 {
		md.PlainText("No records.")
		return md.Build()
	}

	header := tabular.Header(rows)
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(header))
		for i, k := range header {
			v, _ := r.Get(k)
			line[i] = escapeCell(tabular.Cell(v))
		}
		body = append(body, line)
	}

	md.Table(markdown.TableSet{Header: header, Rows: body})
	md.PlainText(strconv.Itoa(len(rows)) + " record(s)")
	return md.Build()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// escapeCell keeps a value on one table line.
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
