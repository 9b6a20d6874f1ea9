// Package localfile parses local files matched by a glob into records
// keyed by their extension.
package localfile
