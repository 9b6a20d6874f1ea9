package jsonld

import (
	"strings"

	"github.com/reliverse/relparse/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeKey is the property that declares a node's type.
const TypeKey = "@type"

// Extractor turns typed structured-data nodes into flat string entities.
type Extractor struct {
	// allowed holds lower-cased type names. Empty accepts every typed node.
	allowed map[string]struct{}

	// props is the explicit property list. Nil means all of a node's keys.
	props []string
}

// NewExtractor creates an Extractor.
// types is the case-insensitive allow-list of @type values; empty accepts
// any node with a non-empty type. props restricts the extracted properties;
// empty extracts every key of a qualifying node.
func NewExtractor(types, props []string) *Extractor {
	lower := cases.Lower(language.Und)
	e := &Extractor{allowed: make(map[string]struct{}, len(types))}
	for _, t := range types {
		e.allowed[lower.String(t)] = struct{}{}
	}
	if len(props) > 0 {
		e.props = append([]string(nil), props...)
	}
	return e
}

// Extract walks the payloads depth-first and returns one entity per
// qualifying node, in visit order. Every entity gets a url field set to
// pageURL unless the node carried its own.
func (e *Extractor) Extract(payloads []Value, pageURL string) []*model.Row {
	w := &walker{
		extractor: e,
		lower:     cases.Lower(language.Und),
		upper:     cases.Upper(language.Und),
		entities:  make([]*model.Row, 0),
	}
	for _, p := range payloads {
		w.visit(p)
	}

	for _, entity := range w.entities {
		if !entity.Has("url") {
			entity.Set("url", pageURL)
		}
	}
	return w.entities
}

// walker carries the per-call state of one extraction.
type walker struct {
	extractor *Extractor
	lower     cases.Caser
	upper     cases.Caser
	entities  []*model.Row
}

func (w *walker) visit(v Value) {
	switch v.Kind() {
	case KindSequence:
		for _, item := range v.Items() {
			w.visit(item)
		}
	case KindMapping:
		if w.qualifies(v) {
			if entity := w.project(v); entity.Len() > 0 {
				w.entities = append(w.entities, entity)
			}
		}
		for _, k := range v.Keys() {
			child, _ := v.Field(k)
			w.visit(child)
		}
	}
}

func (w *walker) qualifies(node Value) bool {
	t, ok := node.Field(TypeKey)
	if !ok {
		return false
	}
	typeName := t.Text()
	if len(w.extractor.allowed) == 0 {
		return typeName != ""
	}
	_, ok = w.extractor.allowed[w.lower.String(typeName)]
	return ok
}

func (w *walker) project(node Value) *model.Row {
	props := w.extractor.props
	if props == nil {
		props = node.Keys()
	}

	entity := model.NewRow()
	for _, prop := range props {
		value, ok := nonEmptyString(node, prop)
		if !ok {
			value, ok = nonEmptyString(node, w.upper.String(prop))
		}
		if !ok {
			continue
		}
		if strings.EqualFold(prop, "email") {
			value = NormalizeEmail(value)
		}
		entity.Set(prop, value)
	}
	return entity
}

func nonEmptyString(node Value, key string) (string, bool) {
	f, ok := node.Field(key)
	if !ok {
		return "", false
	}
	s, ok := f.Str()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
