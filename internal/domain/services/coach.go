package services

import (
	"context"

	"github.com/smolblud/forge/internal/domain/models"
)

// SemanticIndex is the semantic-search collaborator. Results are ordered by
// descending relevance; the core consumes only the top-1 per call.
type SemanticIndex interface {
	Search(ctx context.Context, query string, limit int) ([]models.AdviceHit, error)
}

// Generator is the language-model collaborator: a non-streaming, single
// completion over a role-tagged message sequence.
type Generator interface {
	Generate(ctx context.Context, messages []models.Message) (models.ModelResponse, error)
}

// SubmitResult is the outcome of one full coach request/response cycle.
type SubmitResult struct {
	ConversationID int64       `json:"conversation_id"`
	Plan           models.Plan `json:"plan"`
	Tips           []string    `json:"tips"`
	Response       string      `json:"response"`
}

// Coach runs the classification -> retrieval -> guarded generation pipeline
// for one inbound message and persists the resulting turn pair.
type Coach interface {
	Submit(ctx context.Context, text string, conversationID *int64) (*SubmitResult, error)
}
