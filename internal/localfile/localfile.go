package localfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reliverse/relparse/internal/jsonld"
	"gopkg.in/yaml.v3"
)

// Record types by file extension.
const (
	TypeJSON     = "json"
	TypeYAML     = "yaml"
	TypeMarkdown = "markdown"
	TypeXML      = "xml"
	TypeHTML     = "html"
	TypeUnknown  = "unknown"
)

// Record is the parsed content of one file. Error is set instead of Value
// when structured content does not decode.
type Record struct {
	Path  string `json:"path" yaml:"path"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Parse reads path and decodes it by extension. JSON and YAML are parsed;
// markdown, XML, HTML and other files are returned as text. Files without
// an extension have type "unknown".
func Parse(path string) (Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's glob
	if err != nil {
		return Record{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	rec := Record{Path: path}
	text := string(data)

	switch ext := extension(path); ext {
	case "json":
		rec.Type = TypeJSON
		v, err := jsonld.Parse(data)
		if err != nil {
			rec.Error = "invalid json"
			break
		}
		rec.Value = v
	case "yaml", "yml":
		rec.Type = TypeYAML
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			rec.Error = "invalid yaml"
			break
		}
		rec.Value = v
	case "md", "markdown":
		rec.Type = TypeMarkdown
		rec.Value = text
	case "xml":
		rec.Type = TypeXML
		rec.Value = text
	case "html", "htm":
		rec.Type = TypeHTML
		rec.Value = text
	case "":
		rec.Type = TypeUnknown
		rec.Value = text
	default:
		rec.Type = ext
		rec.Value = text
	}
	return rec, nil
}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Glob returns the regular files matching pattern in lexical order. Names
// starting with a dot are skipped. "**" is not supported.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), ".") {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// ParseAll parses every file matching pattern.
func ParseAll(pattern string) ([]Record, error) {
	paths, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(paths))
	for _, p := range paths {
		rec, err := Parse(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
