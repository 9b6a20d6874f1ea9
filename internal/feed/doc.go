// Package feed extracts items from RSS and Atom feeds and locations from
// XML sitemaps.
package feed
