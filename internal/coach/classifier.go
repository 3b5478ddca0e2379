// Package coach implements the planner/librarian/coach pipeline: request
// classification, advice retrieval, prompt assembly, guardrail checking, and
// the orchestration that ties them to the external collaborators.
package coach

import (
	"strings"
	"unicode"

	"github.com/smolblud/forge/internal/domain/models"
)

// Dimensions is the fixed, ordered set of critique axes applied to long
// submissions. The librarian's query table mirrors this set.
var Dimensions = []string{"Pacing", "Dialogue", "Show-Don't-Tell"}

// submissionWordCount is the word-token count at which input is treated as a
// writing submission rather than conversation.
const submissionWordCount = 50

var greetingLexicon = []string{"hello", "hi", "hey", "greetings"}

var forgeCues = []string{"forge", "who are you", "what do you do"}

// Classifier maps raw input text to an intent category and, for long
// submissions, the fixed critique dimensions. Pure function of the text.
type Classifier struct{}

// Classify produces the plan for one inbound message.
func (Classifier) Classify(text string) models.Plan {
	plan := models.Plan{
		Input:      text,
		Dimensions: []string{},
	}

	if countWords(text) >= submissionWordCount {
		plan.Classification = models.ClassificationSubmission
		plan.Dimensions = append([]string(nil), Dimensions...)
		return plan
	}

	lowered := strings.ToLower(text)
	switch {
	case containsAny(lowered, greetingLexicon):
		plan.Classification = models.ClassificationGreeting
	case containsAny(lowered, forgeCues):
		plan.Classification = models.ClassificationForgeQuestion
	default:
		plan.Classification = models.ClassificationConversation
	}

	return plan
}

// countWords counts contiguous runs of letters, digits, or underscores.
func countWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if isWordRune(r) {
			if !inWord {
				count++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return count
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func containsAny(lowered string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}
