// Package review implements the sequential review pipeline: an ordered set
// of analysis stages executed one after another against a single input,
// each stage seeing everything earlier stages produced.
package review

import "fmt"

// Pipeline is an ordered, immutable list of stages. Construction validates
// the stage list; once built, a Pipeline is safe for concurrent reads from
// any number of runs.
type Pipeline struct {
	name   string
	stages []Stage
}

// NewPipeline validates stages and builds a Pipeline. The stage order is
// the execution order and is fixed for the lifetime of the Pipeline.
func NewPipeline(name string, stages []Stage) (*Pipeline, error) {
	if name == "" {
		name = "review"
	}
	if len(stages) == 0 {
		return nil, &ConfigurationError{Reason: "pipeline must define at least one stage"}
	}

	seen := make(map[string]struct{}, len(stages))
	for _, stage := range stages {
		if stage.Name == "" {
			return nil, &ConfigurationError{Reason: "stage name is required"}
		}
		if stage.Instructions == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("stage %s must have instructions", stage.Name)}
		}
		if _, ok := seen[stage.Name]; ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate stage name: %s", stage.Name)}
		}
		seen[stage.Name] = struct{}{}
	}

	owned := make([]Stage, len(stages))
	copy(owned, stages)
	return &Pipeline{name: name, stages: owned}, nil
}

// DefaultPipeline builds the built-in review pipeline.
func DefaultPipeline() *Pipeline {
	p, err := NewPipeline("review", DefaultStages())
	if err != nil {
		// The built-in stages are statically valid.
		panic(err)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Stages returns the stages in execution order. The returned slice is a
// copy; callers cannot reorder the pipeline through it.
func (p *Pipeline) Stages() []Stage {
	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)
	return stages
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}
