package models

// Classification is the planner's intent category for a single turn.
type Classification string

const (
	ClassificationGreeting      Classification = "greeting"
	ClassificationForgeQuestion Classification = "question_about_forge"
	ClassificationConversation  Classification = "conversation"
	ClassificationSubmission    Classification = "submission"
)

// Plan describes intent and applicable critique dimensions for one request.
// Ephemeral; produced per request and never persisted.
type Plan struct {
	Input          string         `json:"-"`
	Classification Classification `json:"classification"`
	Dimensions     []string       `json:"dimensions"`
}

// AdviceSnippet is one retrieved writing-advice passage, at most one per
// critique dimension.
type AdviceSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AdviceHit is a raw semantic-search result before the librarian keeps top-1.
type AdviceHit struct {
	Title string
	Text  string
	Score float64
}

// Violation identifies which guardrail check a candidate output failed.
type Violation string

const (
	ViolationNone              Violation = ""
	ViolationRewriteSimilarity Violation = "rewrite_similarity"
	ViolationStoryPattern      Violation = "story_pattern"
)

// GuardrailVerdict is the outcome of checking one candidate model output.
type GuardrailVerdict struct {
	Passed    bool
	Violation Violation
}
