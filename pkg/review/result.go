package review

import (
	"time"

	"github.com/zen-systems/reviewgate/pkg/adapter"
)

// StageResult captures the outcome of one stage within a run.
type StageResult struct {
	Stage    string         `json:"stage"`
	Output   string         `json:"output,omitempty"`
	Usage    *adapter.Usage `json:"usage,omitempty"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
}

// Failed reports whether the stage ended in error.
func (r StageResult) Failed() bool {
	return r.Err != nil
}

// RunResult captures the outcome of running the pipeline against one item.
// Stage results appear in pipeline order with no gaps: when a stage fails,
// no results exist for the stages after it.
type RunResult struct {
	Item      string        `json:"item"`
	RunID     string        `json:"run_id"`
	Stages    []StageResult `json:"stages"`
	FinalText string        `json:"final_text,omitempty"`
	Failed    bool          `json:"failed"`
	Err       error         `json:"-"`
}

// BatchOutcome holds one RunResult per processed input item, in input order.
type BatchOutcome []RunResult

// Failures returns the number of failed runs.
func (o BatchOutcome) Failures() int {
	n := 0
	for _, run := range o {
		if run.Failed {
			n++
		}
	}
	return n
}

// TotalUsage sums token usage across all stages of all runs.
func (o BatchOutcome) TotalUsage() adapter.Usage {
	var total adapter.Usage
	for _, run := range o {
		for _, stage := range run.Stages {
			if stage.Usage == nil {
				continue
			}
			total.PromptTokens += stage.Usage.PromptTokens
			total.CompletionTokens += stage.Usage.CompletionTokens
			total.TotalTokens += stage.Usage.TotalTokens
		}
	}
	return total
}
