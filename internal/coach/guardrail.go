package coach

import (
	"strings"
	"unicode/utf8"

	"github.com/smolblud/forge/internal/domain/models"
)

// storyMarkers are narrative opening/closing phrases whose presence in model
// output indicates ghostwritten creative content.
var storyMarkers = []string{
	"once upon a time",
	"the end.",
	"chapter one",
	"in a land",
	"long ago,",
	"and they all lived",
	"happily ever after",
}

// Refusal texts substituted for the model's raw output on a violation.
const (
	rewriteRefusal = "I can't hand your own text back to you as critique. " +
		"Let me point at specific passages instead: tell me which section you'd like feedback on, " +
		"and I'll give you questions and concrete advice rather than a rewrite."

	storyRefusal = "I don't write stories or creative content - that part is yours. " +
		"I can critique what you've written, suggest structural changes, or answer craft questions instead."
)

// Guardrail evaluates a candidate model response against the user's original
// text and known-bad narrative patterns. Pure function of its inputs.
type Guardrail struct {
	threshold float64
	minChars  int
}

// NewGuardrail creates a checker. threshold is the rewrite-similarity ratio
// above which output is blocked; minChars is the user-text length below which
// the similarity check is skipped (coincidental overlap dominates on short
// conversational inputs).
func NewGuardrail(threshold float64, minChars int) Guardrail {
	if threshold <= 0 {
		threshold = 0.5
	}
	if minChars <= 0 {
		minChars = 50
	}
	return Guardrail{threshold: threshold, minChars: minChars}
}

// Check runs both checks in fixed order; the first violation wins.
func (g Guardrail) Check(userText, output string) models.GuardrailVerdict {
	if utf8.RuneCountInString(userText) > g.minChars {
		if quickRatio(userText, output) > g.threshold {
			return models.GuardrailVerdict{Passed: false, Violation: models.ViolationRewriteSimilarity}
		}
	}

	lowered := strings.ToLower(output)
	for _, marker := range storyMarkers {
		if strings.Contains(lowered, marker) {
			return models.GuardrailVerdict{Passed: false, Violation: models.ViolationStoryPattern}
		}
	}

	return models.GuardrailVerdict{Passed: true, Violation: models.ViolationNone}
}

// Refusal returns the fixed substitute text for a violation kind.
func (g Guardrail) Refusal(v models.Violation) string {
	switch v {
	case models.ViolationRewriteSimilarity:
		return rewriteRefusal
	case models.ViolationStoryPattern:
		return storyRefusal
	default:
		return ""
	}
}

// quickRatio is an upper-bound similarity ratio in [0, 1]: twice the number
// of characters the two strings share (counted with multiplicity) over the
// total character count. Identical strings score 1.0.
func quickRatio(a, b string) float64 {
	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)
	if lenA+lenB == 0 {
		return 1.0
	}

	counts := make(map[rune]int, lenB)
	for _, r := range b {
		counts[r]++
	}

	matches := 0
	for _, r := range a {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(lenA+lenB)
}
