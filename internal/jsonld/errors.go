package jsonld

import "errors"

// ErrParse is returned when a structured-data payload is not valid JSON.
// Callers extracting page metadata drop such payloads.
var ErrParse = errors.New("malformed structured data")
