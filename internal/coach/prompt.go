package coach

import (
	"strings"

	"github.com/smolblud/forge/internal/domain/models"
)

// personaPrompt is the fixed system persona and policy text.
const personaPrompt = "You are Forge, an expert writing coach. " +
	"Your goal is to help the user improve their writing through constructive critique, questions, and advice. " +
	"Strictly do NOT rewrite, summarize, or ghostwrite user text. " +
	"Respond with critique, questions, and advice only."

// PromptBuilder assembles the bounded message sequence sent to the model:
// one system message, at most window prior turns, and exactly one final
// message carrying the current user text.
type PromptBuilder struct {
	window int
}

// NewPromptBuilder creates a builder with the given history window.
func NewPromptBuilder(window int) PromptBuilder {
	if window <= 0 {
		window = 10
	}
	return PromptBuilder{window: window}
}

// Build produces the ordered message sequence. If history already contains
// the not-yet-answered current turn as its final entry, that entry is
// excluded before the window is applied; the window evicts oldest turns
// first and never reorders.
func (b PromptBuilder) Build(history []models.Turn, current string, tips []models.AdviceSnippet) []models.Message {
	messages := make([]models.Message, 0, b.window+2)
	messages = append(messages, models.Message{Role: "system", Content: b.systemText(tips)})

	prior := history
	if n := len(prior); n > 0 && prior[n-1].Role == models.RoleUser && prior[n-1].Content == current {
		prior = prior[:n-1]
	}
	if len(prior) > b.window {
		prior = prior[len(prior)-b.window:]
	}

	for _, turn := range prior {
		messages = append(messages, models.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, models.Message{Role: models.RoleUser, Content: current})
	return messages
}

func (b PromptBuilder) systemText(tips []models.AdviceSnippet) string {
	if len(tips) == 0 {
		return personaPrompt
	}

	var sb strings.Builder
	sb.WriteString(personaPrompt)
	sb.WriteString("\n\nAdvice context:\n")
	for _, tip := range tips {
		sb.WriteString("- ")
		sb.WriteString(tip.Content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
