package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/zen-systems/reviewgate/pkg/adapter"
	"github.com/zen-systems/reviewgate/pkg/conversation"
	"github.com/zen-systems/reviewgate/pkg/telemetry"
)

// Item is one unit of input: an identifier and the content to review.
type Item struct {
	ID      string
	Content string
}

// Executor runs a pipeline against one item at a time. The pipeline,
// adapter, and model are fixed at construction; Run holds no state between
// invocations, so one Executor serves a whole batch.
type Executor struct {
	pipeline  *Pipeline
	adapter   adapter.Adapter
	model     string
	telemetry *telemetry.Telemetry
	logger    *slog.Logger
	clock     clockwork.Clock
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTelemetry sets the telemetry capability. Defaults to a no-op.
func WithTelemetry(t *telemetry.Telemetry) ExecutorOption {
	return func(e *Executor) {
		if t != nil {
			e.telemetry = t
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used to time stages. Tests inject a fake clock.
func WithClock(clock clockwork.Clock) ExecutorOption {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewExecutor builds an Executor for the given pipeline and adapter. If
// model is empty, the adapter's first supported model is used.
func NewExecutor(pipeline *Pipeline, a adapter.Adapter, model string, opts ...ExecutorOption) (*Executor, error) {
	if pipeline == nil {
		return nil, &ConfigurationError{Reason: "pipeline is required"}
	}
	if a == nil {
		return nil, &ConfigurationError{Reason: "adapter is required"}
	}
	if model == "" {
		models := a.Models()
		if len(models) == 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("no model specified and adapter %s lists none", a.Name())}
		}
		model = models[0]
	}

	e := &Executor{
		pipeline:  pipeline,
		adapter:   a,
		model:     model,
		telemetry: telemetry.Noop(),
		logger:    slog.Default(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Model returns the model the executor sends to the adapter.
func (e *Executor) Model() string {
	return e.model
}

// Run executes every pipeline stage in order against item and returns the
// RunResult. Failures never escape as returned errors; a broken run is
// reported through RunResult.Failed and the recorded stage error.
//
// The conversation accumulates across stages: each stage's call carries the
// original input plus the system instructions and assistant output of every
// earlier stage, in order. A gateway failure at stage k aborts stages
// k+1..n, since their context would be invalid.
func (e *Executor) Run(ctx context.Context, item Item) RunResult {
	runID := uuid.NewString()
	result := RunResult{Item: item.ID, RunID: runID}

	ctx, endRun := e.telemetry.StartRun(ctx, runID, item.ID)
	defer func() { endRun(result.Err) }()

	logger := e.logger.With("run_id", runID, "item", item.ID)
	logger.Debug("run starting", "pipeline", e.pipeline.Name(), "stages", e.pipeline.Len())

	conv := conversation.Conversation{}.Append(conversation.User(reviewPrompt(item)))

	for _, stage := range e.pipeline.Stages() {
		select {
		case <-ctx.Done():
			logger.Warn("run cancelled", "stage", stage.Name, "reason", ctx.Err())
			result.Failed = true
			result.Err = ctx.Err()
			return result
		default:
		}

		conv = conv.Append(stage.SystemMessage())

		stageCtx, endStage := e.telemetry.StartStage(ctx, runID, stage.Name)
		start := e.clock.Now()
		resp, err := e.adapter.Generate(stageCtx, e.model, conv)
		elapsed := e.clock.Since(start)
		endStage(elapsed, err)

		if err != nil {
			gatewayErr := &GatewayError{
				Stage:     stage.Name,
				Transient: adapter.IsTransient(err),
				Err:       err,
			}
			logger.Error("stage failed", "stage", stage.Name, "duration", elapsed, "error", err)
			result.Stages = append(result.Stages, StageResult{
				Stage:    stage.Name,
				Duration: elapsed,
				Err:      gatewayErr,
			})
			result.Failed = true
			result.Err = gatewayErr
			return result
		}

		logger.Debug("stage completed", "stage", stage.Name, "duration", elapsed)
		conv = conv.Append(conversation.Assistant(resp.Text))
		result.Stages = append(result.Stages, StageResult{
			Stage:    stage.Name,
			Output:   resp.Text,
			Usage:    resp.Usage,
			Duration: elapsed,
		})
	}

	result.FinalText = result.Stages[len(result.Stages)-1].Output
	logger.Debug("run completed")
	return result
}

// reviewPrompt renders the opening user turn carrying the item content.
func reviewPrompt(item Item) string {
	return fmt.Sprintf("Review the following content from %s:\n\n%s", item.ID, item.Content)
}
