// Package jsonld decodes embedded structured-data blocks and extracts
// flat entities from them.
//
// Payloads are decoded into Value, a small tagged union of null, scalar,
// sequence and mapping nodes. Mappings keep their keys in document order,
// which makes Value usable as a general ordered JSON document as well
// (the report package relies on this for tabular output).
//
// An Extractor walks every node depth-first. A mapping node with a
// non-empty @type that passes the allow-list becomes one entity holding the
// node's non-empty string properties; email values are normalized.
package jsonld
