package review

import "github.com/zen-systems/reviewgate/pkg/conversation"

// Stage is one named analysis perspective in a pipeline. Stages are pure
// data: every stage has the same shape and differs only in its instructions.
type Stage struct {
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
}

// SystemMessage wraps the stage instructions as a system-role message.
func (s Stage) SystemMessage() conversation.Message {
	return conversation.System(s.Instructions)
}

// DefaultStages is the built-in review sequence. The synthesis stage is
// last: its output becomes the run's final verdict.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name: "correctness",
			Instructions: "You are a senior engineer reviewing code for correctness. " +
				"Identify logic errors, off-by-one mistakes, unhandled edge cases, race " +
				"conditions, and error paths that lose information. Cite the relevant " +
				"lines and explain why each finding is a problem. If you find nothing, " +
				"say so explicitly.",
		},
		{
			Name: "security",
			Instructions: "You are a security reviewer. Building on the discussion so " +
				"far, look for injection risks, unsafe handling of untrusted input, " +
				"secrets in code, path traversal, and missing validation at trust " +
				"boundaries. Rate each finding low, medium, or high severity.",
		},
		{
			Name: "clarity",
			Instructions: "You are reviewing for readability and maintainability. " +
				"Considering the earlier findings, point out misleading names, dead " +
				"code, overly clever constructs, and missing documentation where the " +
				"intent is not obvious. Prefer a few high-value suggestions over an " +
				"exhaustive list.",
		},
		{
			Name: "synthesis",
			Instructions: "Synthesize the preceding review stages into a final verdict. " +
				"Summarize the most important findings in priority order, note any " +
				"disagreement between stages, and finish with a clear recommendation: " +
				"approve, approve with changes, or request changes.",
		},
	}
}
