// Package merge deduplicates result rows by normalized e-mail and URL and
// appends new rows to previously collected output.
package merge
