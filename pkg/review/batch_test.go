package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLoader(contents map[string]string) Loader {
	return LoaderFunc(func(_ context.Context, item string) (string, error) {
		content, ok := contents[item]
		if !ok {
			return "", fmt.Errorf("open %s: no such file", item)
		}
		return content, nil
	})
}

func newBatchRunner(t *testing.T, loader Loader, opts ...RunnerOption) *Runner {
	t.Helper()
	scripted := &scriptedAdapter{}
	executor, err := NewExecutor(threeStagePipeline(t), scripted, "scripted-1")
	require.NoError(t, err)
	runner, err := NewRunner(executor, loader, opts...)
	require.NoError(t, err)
	return runner
}

func TestRunnerEmptyInput(t *testing.T) {
	runner := newBatchRunner(t, mapLoader(nil))

	outcome, err := runner.Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInput)
	assert.Nil(t, outcome)
}

func TestRunnerIsolatesItemFailures(t *testing.T) {
	loader := mapLoader(map[string]string{
		"a.go": "package a",
		"c.go": "package c",
	})
	runner := newBatchRunner(t, loader)

	outcome, err := runner.Run(context.Background(), []string{"a.go", "b.go", "c.go"})
	require.NoError(t, err)
	require.Len(t, outcome, 3)

	assert.Equal(t, "a.go", outcome[0].Item)
	assert.False(t, outcome[0].Failed)
	assert.Len(t, outcome[0].Stages, 3)

	assert.Equal(t, "b.go", outcome[1].Item)
	assert.True(t, outcome[1].Failed)
	var readErr *InputReadError
	require.ErrorAs(t, outcome[1].Err, &readErr)
	assert.Equal(t, "b.go", readErr.Item)
	assert.Empty(t, outcome[1].Stages)

	assert.Equal(t, "c.go", outcome[2].Item)
	assert.False(t, outcome[2].Failed)

	assert.Equal(t, 1, outcome.Failures())
}

func TestRunnerGatewayFailureDoesNotStopBatch(t *testing.T) {
	scripted := &scriptedAdapter{failAt: 2} // every item fails at its second stage
	executor, err := NewExecutor(threeStagePipeline(t), scripted, "scripted-1")
	require.NoError(t, err)
	loader := mapLoader(map[string]string{"a.go": "a", "b.go": "b"})
	runner, err := NewRunner(executor, loader)
	require.NoError(t, err)

	outcome, err := runner.Run(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)
	require.Len(t, outcome, 2)
	for _, result := range outcome {
		assert.True(t, result.Failed)
		var gatewayErr *GatewayError
		assert.ErrorAs(t, result.Err, &gatewayErr)
	}
}

func TestRunnerConcurrentPreservesOrder(t *testing.T) {
	items := []string{"a.go", "b.go", "c.go", "d.go", "e.go"}
	contents := make(map[string]string, len(items))
	for _, item := range items {
		contents[item] = "package x"
	}
	runner := newBatchRunner(t, mapLoader(contents), WithConcurrency(3))

	outcome, err := runner.Run(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, outcome, len(items))
	for i, result := range outcome {
		assert.Equal(t, items[i], result.Item)
		assert.False(t, result.Failed)
	}
}

func TestRunnerCancellationStopsFurtherItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loader := LoaderFunc(func(_ context.Context, item string) (string, error) {
		if item == "a.go" {
			defer cancel()
		}
		return "package x", nil
	})
	runner := newBatchRunner(t, loader)

	outcome, err := runner.Run(ctx, []string{"a.go", "b.go", "c.go"})
	require.ErrorIs(t, err, context.Canceled)
	// Item a was in flight when cancellation hit; b and c never started.
	require.LessOrEqual(t, len(outcome), 1)
	for _, result := range outcome {
		assert.Equal(t, "a.go", result.Item)
	}
}

func TestRunnerRequiresExecutorAndLoader(t *testing.T) {
	scripted := &scriptedAdapter{}
	executor, err := NewExecutor(threeStagePipeline(t), scripted, "scripted-1")
	require.NoError(t, err)

	var configErr *ConfigurationError
	_, err = NewRunner(nil, mapLoader(nil))
	require.ErrorAs(t, err, &configErr)

	_, err = NewRunner(executor, nil)
	require.ErrorAs(t, err, &configErr)
}

func TestBatchOutcomeTotalUsage(t *testing.T) {
	loader := mapLoader(map[string]string{"a.go": "a", "b.go": "b"})
	runner := newBatchRunner(t, loader)

	outcome, err := runner.Run(context.Background(), []string{"a.go", "b.go"})
	require.NoError(t, err)

	usage := outcome.TotalUsage()
	// Two items, three stages each, 15 total tokens per stage.
	assert.Equal(t, 90, usage.TotalTokens)
	assert.Equal(t, 60, usage.PromptTokens)
	assert.Equal(t, 30, usage.CompletionTokens)
}
