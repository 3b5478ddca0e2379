package repositories

import (
	"context"

	"github.com/smolblud/forge/internal/domain/models"
)

// ConversationStore persists conversations and their ordered turn history.
type ConversationStore interface {
	// CreateConversation creates a new conversation with the given title.
	CreateConversation(ctx context.Context, title string) (*models.Conversation, error)

	// GetConversation retrieves a conversation by ID.
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)

	// GetOrCreateConversation returns the conversation with the given ID, or
	// creates a fresh one when id is nil.
	GetOrCreateConversation(ctx context.Context, id *int64, title string) (*models.Conversation, error)

	// ListConversations returns all conversations, most recently updated first.
	ListConversations(ctx context.Context) ([]models.Conversation, error)

	// DeleteConversation removes a conversation and its turns.
	DeleteConversation(ctx context.Context, id int64) error

	// ListTurns returns the conversation's turns in append order.
	ListTurns(ctx context.Context, conversationID int64) ([]models.Turn, error)

	// AppendExchange appends one user turn and one assistant turn atomically,
	// in that order, and bumps the conversation's updated_at. Writes to the
	// same conversation are serialized; on any failure neither turn is
	// persisted.
	AppendExchange(ctx context.Context, conversationID int64, userText, assistantText string) (user, assistant *models.Turn, err error)
}
