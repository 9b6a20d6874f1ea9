package crawler

import (
	"math"
	"strconv"
	"strings"
)

// MaxPage is the largest page index a page specification may name. Larger
// numbers are treated as malformed.
const MaxPage = 100_000

// ExpandPages turns a page specification into page indices.
//
// A comma list keeps its order and duplicates, dropping tokens that are not
// positive finite numbers. A range "start-end" ascends from max(1, start) to
// end inclusive and is empty when end < start. Any other input is a single
// page. Malformed specs yield an empty slice, never an error.
func ExpandPages(spec string) []int {
	trimmed := strings.TrimSpace(spec)

	if strings.Contains(trimmed, ",") {
		pages := make([]int, 0)
		for _, tok := range strings.Split(trimmed, ",") {
			n, ok := parseNumber(tok)
			if !ok || math.Floor(n) <= 0 {
				continue
			}
			pages = append(pages, int(math.Floor(n)))
		}
		return pages
	}

	if strings.Contains(trimmed, "-") {
		parts := strings.Split(trimmed, "-")
		start, okStart := parseNumber(parts[0])
		end, okEnd := parseNumber(parts[1])
		pages := make([]int, 0)
		if !okStart || !okEnd {
			return pages
		}
		first := max(1, int(math.Floor(start)))
		last := int(math.Floor(end))
		for i := first; i <= last; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	n, ok := parseNumber(trimmed)
	if !ok || math.Floor(n) <= 0 {
		return []int{}
	}
	return []int{int(math.Floor(n))}
}

// parseNumber reads a decimal token. Blank reads as zero. Non-finite values
// and values beyond MaxPage are rejected.
func parseNumber(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	if math.Abs(n) > MaxPage {
		return 0, false
	}
	return n, true
}

// PageURL joins a listing base URL and a page index with exactly one slash.
func PageURL(base string, page int) string {
	return strings.TrimSuffix(base, "/") + "/" + strconv.Itoa(page)
}
