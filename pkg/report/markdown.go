// Package report renders batch outcomes for humans. The core never
// persists results; callers decide where the rendered report goes.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/nao1215/markdown"
	"github.com/zen-systems/reviewgate/pkg/review"
)

// WriteMarkdown renders the batch outcome as a Markdown review report.
func WriteMarkdown(w io.Writer, outcome review.BatchOutcome) error {
	md := markdown.NewMarkdown(w)

	md.H1("Review Report")
	md.PlainText("")

	writeSummary(md, outcome)

	for _, run := range outcome {
		writeRun(md, run)
	}

	return md.Build()
}

func writeSummary(md *markdown.Markdown, outcome review.BatchOutcome) {
	md.H2("Summary")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%d items reviewed, %d failed.", len(outcome), outcome.Failures()))
	md.PlainText("")

	rows := make([][]string, 0, len(outcome))
	for _, run := range outcome {
		status := "ok"
		if run.Failed {
			status = "failed"
		}
		var total time.Duration
		for _, stage := range run.Stages {
			total += stage.Duration
		}
		rows = append(rows, []string{
			run.Item,
			fmt.Sprintf("%d", len(run.Stages)),
			status,
			total.String(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Item", "Stages", "Status", "Duration"},
		Rows:   rows,
	})

	usage := outcome.TotalUsage()
	if usage.TotalTokens > 0 {
		md.PlainText("")
		md.PlainText(fmt.Sprintf("Token usage: %d prompt, %d completion, %d total.",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens))
	}
}

func writeRun(md *markdown.Markdown, run review.RunResult) {
	md.PlainText("")
	md.H2(run.Item)
	md.PlainText("")

	if run.Failed {
		reason := "unknown failure"
		if run.Err != nil {
			reason = run.Err.Error()
		}
		md.PlainText(fmt.Sprintf("Review failed: %s", reason))
		return
	}

	md.PlainText(run.FinalText)
}
