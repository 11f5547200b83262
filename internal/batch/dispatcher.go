package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// Concurrency bounds accepted by the dispatcher.
const (
	MinConcurrency = 1
	MaxConcurrency = 10
)

// Pipeline transforms one item into its output. It reports intermediate
// progress through stage; returning an error marks only this item failed.
type Pipeline func(ctx context.Context, item WorkItem, stage *Stage) (string, error)

// Stage is the handle a pipeline uses to report on its own item.
type Stage struct {
	run   *Run
	index int
}

// Analyzing moves the item into the analyzing state before a secondary call.
func (s *Stage) Analyzing(progress string) error {
	return s.run.update(s.index, func(r *WorkResult) {
		r.Status = StatusAnalyzing
		r.Progress = progress
	})
}

// Report replaces the item's progress message without changing its status.
func (s *Stage) Report(progress string) {
	_ = s.run.update(s.index, func(r *WorkResult) {
		r.Progress = progress
	})
}

// Dispatcher runs pipelines over a batch with a fixed worker count.
type Dispatcher struct {
	logger   *slog.Logger
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithObserver registers an observer for result and progress updates.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.Default(), observer: nopObserver{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.observer == nil {
		d.observer = nopObserver{}
	}
	return d
}

// Run starts a batch and waits for it to finish. The returned error is only
// ever a setup error; per-item failures are recorded on the results.
func (d *Dispatcher) Run(ctx context.Context, items []WorkItem, concurrency int, pipeline Pipeline) (*Run, error) {
	run, err := d.Start(ctx, items, concurrency, pipeline)
	if err != nil {
		return nil, err
	}
	run.Wait()
	return run, nil
}

// Start validates the batch and begins processing it without waiting.
//
// Items whose input is blank are dropped; items without an ID get one.
// Cancelling ctx does not stop the batch: items not yet started fail
// immediately with the context error, so every result still ends terminal.
func (d *Dispatcher) Start(ctx context.Context, items []WorkItem, concurrency int, pipeline Pipeline) (*Run, error) {
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrInvalidConcurrency, concurrency, MinConcurrency, MaxConcurrency)
	}
	if pipeline == nil {
		return nil, ErrNilPipeline
	}

	valid := filterItems(items)
	if len(valid) == 0 {
		return nil, ErrNoItems
	}

	run := newRun(valid, concurrency, d.observer)
	log := logger.FromContextOrDefault(ctx, d.logger).With(
		slog.String("batch_id", run.ID().String()),
	)

	workers := min(concurrency, len(valid))
	log.Info("batch started",
		slog.Int("items", len(valid)),
		slog.Int("skipped", len(items)-len(valid)),
		slog.Int("workers", workers))

	go func() {
		// Go blocks while workers items are in flight, so items are taken in
		// submission order.
		var g errgroup.Group
		g.SetLimit(workers)
		for i, item := range valid {
			g.Go(func() error {
				d.process(ctx, log, run, i, item, pipeline)
				return nil
			})
		}
		_ = g.Wait()
		run.finish()
		counts := run.Counts()
		log.Info("batch finished",
			slog.String("progress", run.Message()),
			slog.Int("completed", counts[StatusCompleted]),
			slog.Int("failed", counts[StatusError]),
			slog.Duration("duration", run.Duration()))
	}()

	return run, nil
}

func (d *Dispatcher) process(ctx context.Context, log *slog.Logger, run *Run, i int, item WorkItem, pipeline Pipeline) {
	log = log.With(slog.String("item_id", item.ID))

	_ = run.update(i, func(r *WorkResult) {
		r.Status = StatusProcessing
		r.Progress = "processing"
	})

	output, err := d.invoke(ctx, item, &Stage{run: run, index: i}, pipeline)
	if err != nil {
		log.Warn("batch item failed", slog.String("error", err.Error()))
		_ = run.update(i, func(r *WorkResult) {
			r.Status = StatusError
			r.Progress = "failed"
			r.Error = err.Error()
		})
		return
	}

	log.Debug("batch item completed", slog.Int("output_len", len(output)))
	_ = run.update(i, func(r *WorkResult) {
		r.Status = StatusCompleted
		r.Progress = "done"
		r.Output = output
	})
}

// invoke runs the pipeline, turning a cancelled context or a panic into an
// item error.
func (d *Dispatcher) invoke(ctx context.Context, item WorkItem, stage *Stage, pipeline Pipeline) (output string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panicked: %v", p)
		}
	}()
	return pipeline(ctx, item, stage)
}

func filterItems(items []WorkItem) []WorkItem {
	valid := make([]WorkItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Input) == "" {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		valid = append(valid, item)
	}
	return valid
}
