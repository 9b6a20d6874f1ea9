// Package main provides the entry point for the relparse CLI.
//
// relparse discovers target pages on a website, extracts JSON-LD entities
// and page metadata, and writes normalized records as csv, json, yaml or
// markdown.
//
// Usage:
//
//	relparse crawl <url> --get name,email,url [flags]
//	relparse html <url>
//	relparse config [file]
//
// See --help for all available options.
package main

func main() {
	Execute()
}
