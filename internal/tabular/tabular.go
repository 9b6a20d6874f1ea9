package tabular

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/reliverse/relparse/internal/model"
)

// Header returns the union of row keys in first-seen order.
func Header(rows []*model.Row) []string {
	seen := make(map[string]struct{})
	header := make([]string, 0)
	for _, r := range rows {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			header = append(header, k)
		}
	}
	return header
}

// Cell renders one value: strings verbatim, integers in decimal, undefined
// as blank, anything else as compact JSON.
func Cell(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case int:
		return strconv.Itoa(tv)
	case json.RawMessage:
		return string(tv)
	default:
		b, err := model.MarshalJSONValue(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Escape quotes a cell that contains a comma, a double quote or a line
// break, doubling inner quotes.
func Escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Encode writes rows as delimited text: a header line, then one line per
// row with one cell per header key. Lines are separated by "\n" with no
// trailing line break.
func Encode(w io.Writer, rows []*model.Row) error {
	bw := bufio.NewWriter(w)
	header := Header(rows)

	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				_ = bw.WriteByte(',')
			}
			_, _ = bw.WriteString(Escape(c))
		}
	}

	writeLine(header)
	for _, r := range rows {
		_ = bw.WriteByte('\n')
		cells := make([]string, len(header))
		for i, k := range header {
			v, _ := r.Get(k)
			cells[i] = Cell(v)
		}
		writeLine(cells)
	}
	return bw.Flush()
}

// Decode reads delimited text. The first non-empty line is the header and
// every later record becomes a row keyed by header position; missing
// trailing cells map to "". Quoted cells may contain commas, doubled quotes
// and line breaks, which are kept byte for byte including "\r". Outside
// quotes "\n" or "\r\n" ends a record. A quote in the middle of an unquoted
// cell is literal and an unterminated quoted cell runs to the end of input.
// Only read failures are returned as errors.
func Decode(r io.Reader) ([]*model.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.Row, 0)
	var header []string
	for _, record := range splitRecords(string(data)) {
		if header == nil {
			header = record
			continue
		}

		row := model.NewRow()
		for i, key := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			row.Set(key, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitRecords splits text into records of cells, skipping blank lines.
func splitRecords(text string) [][]string {
	var (
		records [][]string
		record  []string
		cell    strings.Builder
		quoted  bool // inside a quoted cell
		started bool // the current cell has content or was quoted
	)

	endCell := func() {
		record = append(record, cell.String())
		cell.Reset()
		started = false
	}
	endRecord := func() {
		blank := len(record) == 0 && !started && cell.Len() == 0
		endCell()
		if !blank {
			records = append(records, record)
		}
		record = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quoted {
			if c != '"' {
				cell.WriteByte(c)
				continue
			}
			if i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
				continue
			}
			quoted = false
			continue
		}

		switch {
		case c == '"' && !started:
			quoted, started = true, true
		case c == ',':
			endCell()
		case c == '\n':
			endRecord()
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			endRecord()
			i++
		default:
			cell.WriteByte(c)
			started = true
		}
	}
	if started || cell.Len() > 0 || len(record) > 0 {
		endRecord()
	}
	return records
}
