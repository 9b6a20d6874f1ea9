// Package cache stores raw responses in a SQLite file under the user's
// cache directory. Entries are looked up by Key(input) and kept until the
// cache is cleared.
package cache
