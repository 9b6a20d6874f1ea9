package merge

import (
	"net/url"
	"strings"

	"github.com/reliverse/relparse/internal/model"
)

// NormalizeURL reduces a URL to its identity form: lower-cased scheme and
// host name, one trailing slash removed from non-root paths, query kept
// verbatim. Input that does not parse as an absolute URL is only trimmed
// and loses one trailing slash.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "/" {
			trimmed = strings.TrimSuffix(trimmed, "/")
		}
		return trimmed
	}

	path := u.EscapedPath()
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	query := ""
	if u.RawQuery != "" {
		query = "?" + u.RawQuery
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Hostname()) + path + query
}

// EmailKey is the identity form of an e-mail address.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Keys tracks the identities already present in an output set.
type Keys struct {
	emails map[string]struct{}
	urls   map[string]struct{}
}

// NewKeys returns the identity sets of rows.
func NewKeys(rows []*model.Row) *Keys {
	k := &Keys{
		emails: make(map[string]struct{}),
		urls:   make(map[string]struct{}),
	}
	for _, r := range rows {
		k.Add(r)
	}
	return k
}

// Seen reports whether either identity of r is already known.
func (k *Keys) Seen(r *model.Row) bool {
	if e, ok := emailKey(r); ok {
		if _, dup := k.emails[e]; dup {
			return true
		}
	}
	if u, ok := urlKey(r); ok {
		if _, dup := k.urls[u]; dup {
			return true
		}
	}
	return false
}

// Add records the identities of r.
func (k *Keys) Add(r *model.Row) {
	if e, ok := emailKey(r); ok {
		k.emails[e] = struct{}{}
	}
	if u, ok := urlKey(r); ok {
		k.urls[u] = struct{}{}
	}
}

// Len returns the sizes of the e-mail and URL identity sets.
func (k *Keys) Len() (emails, urls int) {
	return len(k.emails), len(k.urls)
}

// Merge returns existing followed by the fresh rows whose identities are
// new. Fresh rows are checked against each other as well. Existing rows are
// never dropped or reordered.
func Merge(existing, fresh []*model.Row) []*model.Row {
	keys := NewKeys(existing)
	out := make([]*model.Row, 0, len(existing)+len(fresh))
	out = append(out, existing...)
	for _, r := range fresh {
		if keys.Seen(r) {
			continue
		}
		keys.Add(r)
		out = append(out, r)
	}
	return out
}

// Dedupe drops rows whose identity repeats an earlier row.
func Dedupe(rows []*model.Row) []*model.Row {
	return Merge(nil, rows)
}

func emailKey(r *model.Row) (string, bool) {
	s, ok := r.String("email")
	if !ok {
		return "", false
	}
	key := EmailKey(s)
	return key, key != ""
}

func urlKey(r *model.Row) (string, bool) {
	s, ok := r.String("url")
	if !ok {
		return "", false
	}
	key := NormalizeURL(s)
	return key, key != ""
}
