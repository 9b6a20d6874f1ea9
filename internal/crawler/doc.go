// Package crawler discovers target pages and extracts their metadata.
//
// # Modes
//
// A start URL whose host and path match the configured Discovery is a
// target page and is extracted directly. Any other URL is a listing base:
// each page of the page specification is fetched as <base>/<page>, target
// links are collected with a CSS selector and visited one after another.
//
// # Politeness
//
// Fetches never overlap. After each listing page the Spider pauses for the
// base delay, plus PenaltyDelay on every PenaltyEvery-th processed page.
//
// # Usage
//
//	spider := crawler.NewSpider(client, discovery, crawler.WithPerPage(25))
//	hits, err := spider.Crawl(ctx, "https://example.com/category", crawler.ExpandPages("1-15"))
package crawler
