package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/domain/models"
	"github.com/smolblud/forge/internal/domain/repositories"
)

// ConversationRepository implements repositories.ConversationStore using
// PostgreSQL. Turn pairs are appended inside a transaction holding a
// per-conversation advisory lock, so concurrent submits against the same
// conversation can never interleave their turn ordering.
type ConversationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(config *RepositoryConfig, tx repositories.TransactionManager) repositories.ConversationStore {
	return &ConversationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     tx,
		logger: config.Logger,
	}
}

// CreateConversation creates a new conversation
func (r *ConversationRepository) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (title)
		VALUES ($1)
		RETURNING id, title, created_at, updated_at
	`, r.tables.Conversations)

	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, title).Scan(
		&conv.ID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	return &conv, nil
}

// GetConversation retrieves a conversation by ID
func (r *ConversationRepository) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, title, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Conversations)

	var conv models.Conversation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&conv.ID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return &conv, nil
}

// GetOrCreateConversation returns the conversation with the given ID, or
// creates a fresh one when id is nil.
func (r *ConversationRepository) GetOrCreateConversation(ctx context.Context, id *int64, title string) (*models.Conversation, error) {
	if id == nil {
		return r.CreateConversation(ctx, title)
	}
	return r.GetConversation(ctx, *id)
}

// ListConversations returns all conversations, most recently updated first
func (r *ConversationRepository) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	query := fmt.Sprintf(`
		SELECT id, title, created_at, updated_at
		FROM %s
		ORDER BY updated_at DESC
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	// Return empty slice instead of nil
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return conversations, nil
}

// DeleteConversation removes a conversation; turns cascade.
func (r *ConversationRepository) DeleteConversation(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListTurns returns the conversation's turns in append order
func (r *ConversationRepository) ListTurns(ctx context.Context, conversationID int64) ([]models.Turn, error) {
	query := fmt.Sprintf(`
		SELECT id, conversation_id, role, content, created_at
		FROM %s
		WHERE conversation_id = $1
		ORDER BY created_at, id
	`, r.tables.Turns)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	if turns == nil {
		turns = []models.Turn{}
	}

	return turns, nil
}

// AppendExchange appends one user turn and one assistant turn atomically and
// bumps the conversation's updated_at. All three writes share one transaction
// holding an advisory lock keyed on the conversation ID, so either both turns
// are recorded or neither, and concurrent appends cannot interleave.
func (r *ConversationRepository) AppendExchange(ctx context.Context, conversationID int64, userText, assistantText string) (*models.Turn, *models.Turn, error) {
	var user, assistant *models.Turn

	err := r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)

		// Serialize writers on this conversation for the duration of the tx.
		if _, err := executor.Exec(txCtx, `SELECT pg_advisory_xact_lock($1)`, conversationID); err != nil {
			return fmt.Errorf("acquire conversation lock: %w", err)
		}

		// NOW() is fixed for the whole transaction, so explicit timestamps
		// keep the user turn ordered strictly before the assistant turn.
		now := time.Now()

		var err error
		user, err = r.appendTurn(txCtx, conversationID, models.RoleUser, userText, now)
		if err != nil {
			return err
		}

		assistant, err = r.appendTurn(txCtx, conversationID, models.RoleAssistant, assistantText, now.Add(time.Microsecond))
		if err != nil {
			return err
		}

		bump := fmt.Sprintf(`UPDATE %s SET updated_at = $1 WHERE id = $2`, r.tables.Conversations)
		result, err := executor.Exec(txCtx, bump, now, conversationID)
		if err != nil {
			return fmt.Errorf("bump conversation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, assistant, nil
}

// appendTurn inserts one turn; must run inside a transaction context.
func (r *ConversationRepository) appendTurn(ctx context.Context, conversationID int64, role, content string, createdAt time.Time) (*models.Turn, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, conversation_id, role, content, created_at
	`, r.tables.Turns)

	var turn models.Turn
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, uuid.New(), conversationID, role, content, createdAt).Scan(
		&turn.ID,
		&turn.ConversationID,
		&turn.Role,
		&turn.Content,
		&turn.CreatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("append %s turn: %w", role, err)
	}

	return &turn, nil
}
