package crawler

import (
	"errors"
	"io"
	"strings"

	"github.com/reliverse/relparse/internal/jsonld"
	"golang.org/x/net/html"
)

// Metadata is what one target page yields: document metadata and its raw
// structured-data payloads.
type Metadata struct {
	URL         string            `json:"url" yaml:"url"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Canonical   string            `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Links       []string          `json:"links" yaml:"links"`
	Meta        map[string]string `json:"meta" yaml:"meta"`
	OG          map[string]string `json:"og" yaml:"og"`
	JSONLD      []jsonld.Value    `json:"jsonld" yaml:"jsonld"`
}

const jsonLDType = "application/ld+json"

// ParseMetadata streams an HTML document through the tokenizer and collects
// its metadata. Structured-data blocks that fail to decode are dropped.
func ParseMetadata(r io.Reader, pageURL string) (*Metadata, error) {
	b := newMetadataBuilder(pageURL)
	z := html.NewTokenizer(r)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.build(), nil
			}
			return nil, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			b.startTag(z.Token(), tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			b.endTag(z.Token())
		case html.TextToken:
			b.text(string(z.Text()))
		}
	}
}

// metadataBuilder accumulates state across tokenizer events and is
// finalized once the stream is exhausted.
type metadataBuilder struct {
	md       *Metadata
	seen     map[string]struct{}
	inTitle  bool
	inScript bool
	script   strings.Builder
}

func newMetadataBuilder(pageURL string) *metadataBuilder {
	return &metadataBuilder{
		md: &Metadata{
			URL:    pageURL,
			Links:  make([]string, 0),
			Meta:   make(map[string]string),
			OG:     make(map[string]string),
			JSONLD: make([]jsonld.Value, 0),
		},
		seen: make(map[string]struct{}),
	}
}

func (b *metadataBuilder) startTag(tok html.Token, selfClosing bool) {
	switch tok.Data {
	case "title":
		b.inTitle = !selfClosing
	case "link":
		b.link(tok)
	case "meta":
		b.meta(tok)
	case "script":
		typ, _ := attr(tok, "type")
		if !selfClosing && strings.EqualFold(strings.TrimSpace(typ), jsonLDType) {
			b.inScript = true
			b.script.Reset()
		}
	}
}

func (b *metadataBuilder) endTag(tok html.Token) {
	switch tok.Data {
	case "title":
		b.inTitle = false
	case "script":
		if b.inScript {
			b.inScript = false
			b.addJSONLD(b.script.String())
		}
	}
}

func (b *metadataBuilder) text(s string) {
	switch {
	case b.inTitle:
		if v := strings.TrimSpace(s); v != "" {
			b.md.Title += v
		}
	case b.inScript:
		b.script.WriteString(s)
	}
}

func (b *metadataBuilder) link(tok html.Token) {
	href, _ := attr(tok, "href")
	if href == "" {
		return
	}
	if _, ok := b.seen[href]; !ok {
		b.seen[href] = struct{}{}
		b.md.Links = append(b.md.Links, href)
	}
	if rel, ok := attr(tok, "rel"); ok && strings.ToLower(rel) == "canonical" {
		b.md.Canonical = href
	}
}

func (b *metadataBuilder) meta(tok html.Token) {
	name, ok := attr(tok, "name")
	if !ok {
		name, _ = attr(tok, "property")
	}
	if name == "" {
		return
	}
	content, _ := attr(tok, "content")

	key := strings.ToLower(name)
	if strings.HasPrefix(key, "og:") {
		b.md.OG[key] = content
		return
	}
	b.md.Meta[key] = content
	if key == "description" {
		b.md.Description = content
	}
}

func (b *metadataBuilder) addJSONLD(raw string) {
	v, err := jsonld.Parse([]byte(strings.TrimSpace(raw)))
	if err != nil {
		return
	}
	b.md.JSONLD = append(b.md.JSONLD, v)
}

func (b *metadataBuilder) build() *Metadata {
	if b.inScript {
		b.inScript = false
		b.addJSONLD(b.script.String())
	}
	return b.md
}

// attr returns the value of the named attribute and whether it is present.
// Attribute keys are already lower-cased by the tokenizer.
func attr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
