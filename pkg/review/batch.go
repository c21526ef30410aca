package review

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Loader obtains the content of an input item.
type Loader interface {
	Load(ctx context.Context, item string) (string, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, item string) (string, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, item string) (string, error) {
	return f(ctx, item)
}

// Runner applies an Executor to an ordered list of input items. One item's
// failure never prevents later items from being processed.
type Runner struct {
	executor    *Executor
	loader      Loader
	logger      *slog.Logger
	concurrency int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBatchLogger sets the runner's logger.
func WithBatchLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConcurrency bounds how many items run at once. The default of 1
// processes items strictly in sequence; higher values run independent items
// concurrently while capping in-flight gateway calls. Outcome order always
// matches input order.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner builds a Runner over the given executor and loader.
func NewRunner(executor *Executor, loader Loader, opts ...RunnerOption) (*Runner, error) {
	if executor == nil {
		return nil, &ConfigurationError{Reason: "executor is required"}
	}
	if loader == nil {
		return nil, &ConfigurationError{Reason: "loader is required"}
	}

	r := &Runner{
		executor:    executor,
		loader:      loader,
		logger:      slog.Default(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes every item and returns one RunResult per processed item, in
// input order. An empty item list returns ErrNoInput. On cancellation the
// results collected so far are returned together with the context error; no
// new item is started after cancellation is requested.
func (r *Runner) Run(ctx context.Context, items []string) (BatchOutcome, error) {
	if len(items) == 0 {
		return nil, ErrNoInput
	}

	r.logger.Info("batch starting", "items", len(items), "concurrency", r.concurrency)

	if r.concurrency > 1 {
		return r.runConcurrent(ctx, items)
	}

	outcome := make(BatchOutcome, 0, len(items))
	for i, item := range items {
		select {
		case <-ctx.Done():
			r.logger.Warn("batch cancelled", "processed", i, "total", len(items))
			return outcome, ctx.Err()
		default:
		}
		outcome = append(outcome, r.runOne(ctx, item))
	}

	r.logger.Info("batch complete", "items", len(outcome), "failed", outcome.Failures())
	return outcome, nil
}

// runConcurrent processes items with a bounded worker count. Results are
// written by input index so the outcome order is deterministic regardless
// of completion order.
func (r *Runner) runConcurrent(ctx context.Context, items []string) (BatchOutcome, error) {
	results := make([]RunResult, len(items))
	started := make([]bool, len(items))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)

	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			started[i] = true
			results[i] = r.runOne(ctx, item)
			return nil
		})
	}

	err := g.Wait()

	outcome := make(BatchOutcome, 0, len(items))
	for i := range results {
		if started[i] {
			outcome = append(outcome, results[i])
		}
	}

	r.logger.Info("batch complete", "items", len(outcome), "failed", outcome.Failures())
	return outcome, err
}

// runOne loads an item's content and executes the pipeline against it. A
// load failure is contained here: the item is marked failed with an
// InputReadError and the batch moves on.
func (r *Runner) runOne(ctx context.Context, item string) RunResult {
	content, err := r.loader.Load(ctx, item)
	if err != nil {
		readErr := &InputReadError{Item: item, Err: err}
		r.logger.Warn("input load failed", "item", item, "error", err)
		return RunResult{Item: item, Failed: true, Err: readErr}
	}
	return r.executor.Run(ctx, Item{ID: item, Content: content})
}
