package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/smolblud/forge/internal/domain/models"
	"github.com/smolblud/forge/internal/domain/repositories"
	"github.com/smolblud/forge/internal/httputil"
)

// ChatHandler exposes the conversation-history endpoints consumed by the
// frontend sidebar.
type ChatHandler struct {
	store  repositories.ConversationStore
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store repositories.ConversationStore, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{store: store, logger: logger}
}

type createChatRequest struct {
	Title string `json:"title"`
}

func (r createChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 200)),
	)
}

// ListChats returns all conversations, most recently updated first.
// GET /chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.store.ListConversations(r.Context())
	if err != nil {
		h.logger.Error("list conversations failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversations)
}

// CreateChat creates an empty conversation.
// POST /chats
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	title := req.Title
	if title == "" {
		title = "New Conversation"
	}

	conv, err := h.store.CreateConversation(r.Context(), title)
	if err != nil {
		h.logger.Error("create conversation failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// chatDetail is a conversation together with its message history in the
// shape the frontend expects.
type chatDetail struct {
	models.Conversation
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GetChat returns one conversation with its full ordered history.
// GET /chats/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conv, err := h.store.GetConversation(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	turns, err := h.store.ListTurns(r.Context(), id)
	if err != nil {
		h.logger.Error("list turns failed", "conversation_id", id, "error", err)
		handleError(w, err)
		return
	}

	detail := chatDetail{
		Conversation: *conv,
		Messages:     make([]chatMessage, 0, len(turns)),
	}
	for _, turn := range turns {
		detail.Messages = append(detail.Messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// DeleteChat removes a conversation and its history.
// DELETE /chats/{id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteConversation(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
