package pipeline

import (
	"github.com/reliverse/relparse/internal/crawler"
	"github.com/reliverse/relparse/internal/model"
)

// Batch carries the state of one crawl through the pipeline.
type Batch struct {
	// StartURL is the listing base or direct target URL.
	StartURL string

	// Pages are the listing page indices to visit.
	Pages []int

	// Hits are the raw entities found by the crawl.
	Hits []crawler.Hit

	// Rows are the assembled result rows, merged with prior output once
	// MergeStep has run.
	Rows []*model.Row

	// Output is the final projection of Rows.
	Output []*model.Row
}

// NewBatch creates a Batch for a crawl of startURL.
func NewBatch(startURL string, pages []int) *Batch {
	return &Batch{
		StartURL: startURL,
		Pages:    pages,
		Hits:     make([]crawler.Hit, 0),
		Rows:     make([]*model.Row, 0),
		Output:   make([]*model.Row, 0),
	}
}
