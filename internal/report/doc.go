// Package report encodes result data for output.
//
// Four formats are supported through the Writer interface:
//   - CSVWriter: delimited text with a header row
//   - JSONWriter: JSON, two-space indented by default
//   - YAMLWriter: a single YAML document
//   - MarkdownWriter: a GitHub-flavored markdown table
//
// Tabular formats accept any JSON-encodable value and flatten it with
// Tabulate. Write routes the encoded bytes to stdout or a file.
package report
