package provision

// Outcome classifies how much of a multi-step workflow took effect.
// Best-effort sub-steps that fail leave the primary operation committed
// but mark the result partial, so callers can report the gap instead of
// inferring it from logs.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomePartial   Outcome = "partially-committed"
	OutcomeFailed    Outcome = "failed"
)

// Named best-effort sub-steps reported on partial results.
const (
	StepAssistantLink       = "assistant-link"
	StepKnowledgeBaseRead   = "knowledge-base-read"
	StepKnowledgeBaseAttach = "knowledge-base-attach"
	StepKnowledgeBaseDetach = "knowledge-base-detach"
)

// outcomeFor derives the outcome from the failed sub-step list.
func outcomeFor(failedSteps []string) Outcome {
	if len(failedSteps) > 0 {
		return OutcomePartial
	}
	return OutcomeCommitted
}
