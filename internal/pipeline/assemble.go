package pipeline

import (
	"strings"

	"github.com/reliverse/relparse/internal/model"
)

// PageField is the result field that carries the listing page index.
const PageField = "page"

// AssembleOptions selects which entity fields become result fields.
type AssembleOptions struct {
	// ExtractAll copies every non-empty string field.
	ExtractAll bool

	// Fields are copied when ExtractAll is false. "page" is skipped here
	// because it comes from the crawl loop.
	Fields []string

	// Required fields must be present and non-blank for a row to be kept.
	Required []string
}

// Assemble builds a result row from an entity and its page context. page
// nil leaves the page field undefined. The second result reports whether
// the row is kept: it must carry at least one defined non-page field and
// satisfy HasRequiredFields.
func Assemble(page *int, entity *model.Row, opts AssembleOptions) (*model.Row, bool) {
	row := model.NewRow()
	if page != nil {
		row.Set(PageField, *page)
	} else {
		row.Set(PageField, nil)
	}

	if opts.ExtractAll {
		for _, k := range entity.Keys() {
			if s, ok := entity.String(k); ok && s != "" {
				row.Set(k, s)
			}
		}
	} else {
		for _, f := range opts.Fields {
			if f == PageField {
				continue
			}
			if v, ok := entity.Get(f); ok && v != nil {
				row.Set(f, v)
			}
		}
	}

	return row, hasData(row) && HasRequiredFields(row, opts.Required)
}

func hasData(row *model.Row) bool {
	for _, k := range row.Keys() {
		if k != PageField && row.Defined(k) {
			return true
		}
	}
	return false
}

// HasRequiredFields reports whether every required field is defined and,
// when it is a string, non-blank after trimming. An empty list passes.
func HasRequiredFields(row *model.Row, required []string) bool {
	for _, f := range required {
		v, ok := row.Get(f)
		if !ok || v == nil {
			return false
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

// Project keeps only the requested fields of each row, in request order.
// fields defaults to ["page"]. The page field is always set when requested,
// possibly undefined; other fields only when defined.
func Project(rows []*model.Row, fields []string) []*model.Row {
	if len(fields) == 0 {
		fields = []string{PageField}
	}

	out := make([]*model.Row, 0, len(rows))
	for _, row := range rows {
		r := model.NewRow()
		for _, f := range fields {
			v, _ := row.Get(f)
			if f == PageField {
				r.Set(PageField, v)
				continue
			}
			if v != nil {
				r.Set(f, v)
			}
		}
		out = append(out, r)
	}
	return out
}
