package config

import (
	"slices"
	"strconv"
	"strings"
)

// Task names accepted in a task file.
const (
	TaskHTML    = "html"
	TaskCrawl   = "crawl"
	TaskRSS     = "rss"
	TaskSitemap = "sitemap"
	TaskFile    = "file"
)

// KnownTasks lists the commands a task file may run.
var KnownTasks = []string{TaskHTML, TaskCrawl, TaskRSS, TaskSitemap, TaskFile}

// Task is one command invocation from a task file.
type Task struct {
	// Run is the command name (html, crawl, rss, sitemap, file).
	Run string `yaml:"run"`

	// Args are the command arguments, exactly as on the command line.
	Args []string `yaml:"args,omitempty"`
}

// TaskDefaults are HTTP settings applied to every fetching task that does
// not set them itself.
type TaskDefaults struct {
	// UserAgent is passed as --ua.
	UserAgent string `yaml:"ua,omitempty"`

	// Timeout is passed as --timeout (a Go duration such as "20s").
	Timeout string `yaml:"timeout,omitempty"`

	// Retries is passed as --retries.
	Retries *int `yaml:"retries,omitempty"`

	// Proxy is passed as --proxy.
	Proxy string `yaml:"proxy,omitempty"`
}

// File represents the structure of a relparse task file.
type File struct {
	// Defaults apply to every task unless the task's own args override them.
	Defaults TaskDefaults `yaml:"defaults,omitempty"`

	// Tasks run sequentially in file order.
	Tasks []Task `yaml:"tasks"`
}

// Known reports whether the task names a supported command.
func (t Task) Known() bool {
	return slices.Contains(KnownTasks, t.Run)
}

// ResolvedArgs returns the task's arguments with defaults appended for
// flags the task does not set. The file task never fetches and gets none.
func (f *File) ResolvedArgs(t Task) []string {
	args := append([]string(nil), t.Args...)
	if t.Run == TaskFile {
		return args
	}

	d := f.Defaults
	if d.UserAgent != "" && !hasFlag(args, "--ua") {
		args = append(args, "--ua", d.UserAgent)
	}
	if d.Timeout != "" && !hasFlag(args, "--timeout") {
		args = append(args, "--timeout", d.Timeout)
	}
	if d.Retries != nil && !hasFlag(args, "--retries") {
		args = append(args, "--retries", strconv.Itoa(*d.Retries))
	}
	if d.Proxy != "" && !hasFlag(args, "--proxy") {
		args = append(args, "--proxy", d.Proxy)
	}
	return args
}

// hasFlag reports whether args set the flag, as "--flag value" or "--flag=value".
func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag || strings.HasPrefix(a, flag+"=") {
			return true
		}
	}
	return false
}
