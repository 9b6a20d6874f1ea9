// Package model defines the record type shared by the extraction pipeline.
//
// A Row keeps its keys in insertion order so that delimited output headers,
// JSON objects and YAML mappings all list fields the way they were found.
// Entities extracted from structured data, assembled result rows and rows
// decoded from an existing output file are all Rows.
package model
