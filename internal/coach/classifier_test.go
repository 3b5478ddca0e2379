package coach

import (
	"strings"
	"testing"

	"github.com/smolblud/forge/internal/domain/models"
)

func TestClassifier_Classify(t *testing.T) {
	longSubmission := strings.Repeat("word ", 50)

	tests := []struct {
		name     string
		input    string
		expected models.Classification
	}{
		{
			name:     "greeting",
			input:    "Hello there!",
			expected: models.ClassificationGreeting,
		},
		{
			name:     "greeting case insensitive",
			input:    "HEY, got a minute?",
			expected: models.ClassificationGreeting,
		},
		{
			name:     "question about the coach",
			input:    "What do you do exactly?",
			expected: models.ClassificationForgeQuestion,
		},
		{
			name:     "mentions forge by name",
			input:    "Is Forge able to critique poetry?",
			expected: models.ClassificationForgeQuestion,
		},
		{
			name:     "short conversation",
			input:    "My protagonist feels flat in the second act.",
			expected: models.ClassificationConversation,
		},
		{
			name:     "fifty words is a submission",
			input:    longSubmission,
			expected: models.ClassificationSubmission,
		},
		{
			name:     "forty-nine words is not a submission",
			input:    strings.Repeat("word ", 49),
			expected: models.ClassificationConversation,
		},
		{
			name:     "greeting check comes before forge cues",
			input:    "Hi Forge",
			expected: models.ClassificationGreeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Classifier{}.Classify(tt.input)

			if plan.Classification != tt.expected {
				t.Errorf("Classify(%q).Classification = %q, want %q", tt.input, plan.Classification, tt.expected)
			}

			if tt.expected == models.ClassificationSubmission {
				if len(plan.Dimensions) != len(Dimensions) {
					t.Fatalf("expected %d dimensions, got %d", len(Dimensions), len(plan.Dimensions))
				}
				for i, dim := range Dimensions {
					if plan.Dimensions[i] != dim {
						t.Errorf("Dimensions[%d] = %q, want %q", i, plan.Dimensions[i], dim)
					}
				}
			} else if len(plan.Dimensions) != 0 {
				t.Errorf("expected no dimensions for %q, got %v", tt.expected, plan.Dimensions)
			}
		})
	}
}

func TestClassifier_SubmissionWithGreetingWords(t *testing.T) {
	// A long draft that happens to open with "Hi" is still a submission.
	input := "Hi everyone. " + strings.Repeat("word ", 50)

	plan := Classifier{}.Classify(input)
	if plan.Classification != models.ClassificationSubmission {
		t.Errorf("Classification = %q, want %q", plan.Classification, models.ClassificationSubmission)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"hyphen-ated counts as two", 5},
		{"punctuation, doesn't split words!", 5},
		{"under_score is one token", 4},
		{"tabs\tand\nnewlines separate", 4},
	}

	for _, tt := range tests {
		if got := countWords(tt.input); got != tt.expected {
			t.Errorf("countWords(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
