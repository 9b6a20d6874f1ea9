package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/reliverse/relparse/internal/crawler"
	"github.com/reliverse/relparse/internal/merge"
	"github.com/reliverse/relparse/internal/model"
	"github.com/reliverse/relparse/internal/tabular"
)

// Crawler finds entities starting from a URL.
type Crawler interface {
	Crawl(ctx context.Context, startURL string, pages []int) ([]crawler.Hit, error)
}

// CollectStep runs the crawl and stores its hits.
type CollectStep struct {
	crawler Crawler
}

// NewCollectStep creates a CollectStep.
func NewCollectStep(c Crawler) *CollectStep {
	return &CollectStep{crawler: c}
}

// Name returns the step name.
func (s *CollectStep) Name() string {
	return "collect"
}

// Do executes the crawl.
func (s *CollectStep) Do(ctx context.Context, batch *Batch) error {
	hits, err := s.crawler.Crawl(ctx, batch.StartURL, batch.Pages)
	if err != nil {
		return err
	}
	batch.Hits = hits
	return nil
}

// AssembleStep turns hits into filtered result rows.
type AssembleStep struct {
	opts AssembleOptions
}

// NewAssembleStep creates an AssembleStep.
func NewAssembleStep(opts AssembleOptions) *AssembleStep {
	return &AssembleStep{opts: opts}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do assembles every hit, keeping rows that pass the filters.
func (s *AssembleStep) Do(_ context.Context, batch *Batch) error {
	rows := make([]*model.Row, 0, len(batch.Hits))
	for _, hit := range batch.Hits {
		if row, keep := Assemble(hit.Page, hit.Entity, s.opts); keep {
			rows = append(rows, row)
		}
	}
	batch.Rows = rows
	return nil
}

// MergeStep deduplicates rows and, when a previous output file is given,
// appends only new rows to its content.
type MergeStep struct {
	// existing is the delimited output file to merge with. Empty disables
	// merging but rows are still deduplicated.
	existing string

	logger *slog.Logger
}

// MergeStepOption configures a MergeStep.
type MergeStepOption func(*MergeStep)

// WithExistingFile merges with the rows of a delimited output file.
func WithExistingFile(path string) MergeStepOption {
	return func(s *MergeStep) {
		s.existing = path
	}
}

// WithMergeLogger sets a custom logger for the merge step.
func WithMergeLogger(logger *slog.Logger) MergeStepOption {
	return func(s *MergeStep) {
		s.logger = logger
	}
}

// NewMergeStep creates a MergeStep.
func NewMergeStep(opts ...MergeStepOption) *MergeStep {
	s := &MergeStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *MergeStep) Name() string {
	return "merge"
}

// Do merges fresh rows into the existing output. Without an existing file
// the fresh rows are only deduplicated against each other.
func (s *MergeStep) Do(_ context.Context, batch *Batch) error {
	if s.existing == "" {
		fresh := len(batch.Rows)
		batch.Rows = merge.Dedupe(batch.Rows)
		s.logger.Debug("deduplicated results", "fresh", fresh, "kept", len(batch.Rows))
		return nil
	}

	existing, err := s.readExisting()
	if err != nil {
		return err
	}

	emails, urls := merge.NewKeys(existing).Len()
	s.logger.Debug("loaded existing output",
		"file", s.existing,
		"rows", len(existing),
		"known_emails", emails,
		"known_urls", urls,
	)

	merged := merge.Merge(existing, batch.Rows)
	s.logger.Info("merged results",
		"existing", len(existing),
		"added", len(merged)-len(existing),
	)
	batch.Rows = merged
	return nil
}

func (s *MergeStep) readExisting() ([]*model.Row, error) {
	f, err := os.Open(s.existing)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open existing output: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := tabular.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing output: %w", err)
	}
	return rows, nil
}

// ProjectStep selects the output fields.
type ProjectStep struct {
	fields []string
}

// NewProjectStep creates a ProjectStep.
func NewProjectStep(fields []string) *ProjectStep {
	return &ProjectStep{fields: fields}
}

// Name returns the step name.
func (s *ProjectStep) Name() string {
	return "project"
}

// Do projects the rows into Output.
func (s *ProjectStep) Do(_ context.Context, batch *Batch) error {
	batch.Output = Project(batch.Rows, s.fields)
	return nil
}
