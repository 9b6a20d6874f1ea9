package report

import (
	"encoding/json"

	"github.com/reliverse/relparse/internal/jsonld"
	"github.com/reliverse/relparse/internal/model"
)

// Tabulate converts arbitrary output data into rows for tabular formats.
// A row slice is returned as-is. Otherwise the data is encoded as JSON and
// read back in document order: an array yields one row per element, an
// object yields one row, and a scalar yields a single {value} row. Nested
// values are kept as compact JSON.
func Tabulate(data any) ([]*model.Row, error) {
	if rows, ok := data.([]*model.Row); ok {
		return rows, nil
	}

	raw, err := model.MarshalJSONValue(data)
	if err != nil {
		return nil, err
	}
	doc, err := jsonld.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch doc.Kind() {
	case jsonld.KindNull:
		return []*model.Row{}, nil
	case jsonld.KindSequence:
		rows := make([]*model.Row, 0, len(doc.Items()))
		for _, item := range doc.Items() {
			r, err := rowFromValue(item)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		return rows, nil
	default:
		r, err := rowFromValue(doc)
		if err != nil {
			return nil, err
		}
		return []*model.Row{r}, nil
	}
}

// rowFromValue turns an object into a row and wraps anything else as {value}.
func rowFromValue(v jsonld.Value) (*model.Row, error) {
	r := model.NewRow()
	if v.Kind() != jsonld.KindMapping {
		cell, err := cellValue(v)
		if err != nil {
			return nil, err
		}
		r.Set("value", cell)
		return r, nil
	}

	for _, k := range v.Keys() {
		field, _ := v.Field(k)
		cell, err := cellValue(field)
		if err != nil {
			return nil, err
		}
		r.Set(k, cell)
	}
	return r, nil
}

func cellValue(v jsonld.Value) (any, error) {
	if v.Kind() == jsonld.KindNull {
		return nil, nil
	}
	if s, ok := v.Str(); ok {
		return s, nil
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
