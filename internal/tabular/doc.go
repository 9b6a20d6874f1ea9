// Package tabular encodes and decodes the delimited output format.
//
// The encoder writes a header built from the union of row keys and quotes
// only cells that need it. The decoder is deliberately permissive so that a
// hand-edited output file can still be merged into.
package tabular
