// Package config provides configuration structures for relparse.
// It defines the crawl options with their defaults, the errors returned when
// options are missing or invalid, and the YAML task file read by the config
// command.
package config
