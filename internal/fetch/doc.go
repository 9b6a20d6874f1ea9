// Package fetch provides the HTTP client used by every command.
//
// Requests carry a configurable User-Agent and are bounded by a per-attempt
// timeout. Server errors and transport failures are retried with a pause of
// backoff × attempt; once retries run out the failure is returned as a
// *StatusError or *Error, both of which match ErrFetch.
package fetch
