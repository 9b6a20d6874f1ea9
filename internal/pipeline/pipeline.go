package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Step is one stage of a crawl working on the shared Batch.
type Step interface {
	// Do runs the stage. A non-nil error ends the run.
	Do(ctx context.Context, batch *Batch) error

	// Name identifies the stage in logs.
	Name() string
}

// Pipeline runs its steps one after another against a single Batch.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0, 4)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.AddSteps(step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order and returns the first error unchanged.
// A cancelled ctx stops the run before the next step starts.
func (p *Pipeline) Execute(ctx context.Context, batch *Batch) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("crawl interrupted", "before", step.Name(), "reason", err)
			return err
		}

		start := time.Now()
		err := step.Do(ctx, batch)
		p.logger.Debug("step done",
			"step", step.Name(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"hits", len(batch.Hits),
			"rows", len(batch.Rows),
			"output", len(batch.Output),
			"error", err,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
