package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/domain/models"
)

type memStore struct {
	nopStore
	conversations map[int64]*models.Conversation
	turns         map[int64][]models.Turn
	nextID        int64
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[int64]*models.Conversation),
		turns:         make(map[int64][]models.Turn),
		nextID:        1,
	}
}

func (s *memStore) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	conv := &models.Conversation{ID: s.nextID, Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.conversations[conv.ID] = conv
	s.nextID++
	return conv, nil
}

func (s *memStore) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (s *memStore) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	out := make([]models.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memStore) DeleteConversation(ctx context.Context, id int64) error {
	if _, ok := s.conversations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.conversations, id)
	delete(s.turns, id)
	return nil
}

func (s *memStore) ListTurns(ctx context.Context, conversationID int64) ([]models.Turn, error) {
	return append([]models.Turn(nil), s.turns[conversationID]...), nil
}

func (s *memStore) addTurn(conversationID int64, role, content string) {
	s.turns[conversationID] = append(s.turns[conversationID], models.Turn{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	})
}

func TestChatHandler_CreateChat(t *testing.T) {
	store := newMemStore()
	h := NewChatHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewBufferString(`{"title": "draft review"}`))
	rec := httptest.NewRecorder()
	h.CreateChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var conv models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if conv.Title != "draft review" {
		t.Errorf("title = %q, want %q", conv.Title, "draft review")
	}
}

func TestChatHandler_CreateChat_DefaultTitle(t *testing.T) {
	store := newMemStore()
	h := NewChatHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/chats", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	h.CreateChat(rec, req)

	var conv models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if conv.Title != "New Conversation" {
		t.Errorf("title = %q, want default", conv.Title)
	}
}

func TestChatHandler_GetChat(t *testing.T) {
	store := newMemStore()
	conv, _ := store.CreateConversation(context.Background(), "review")
	store.addTurn(conv.ID, models.RoleUser, "critique my opening")
	store.addTurn(conv.ID, models.RoleAssistant, "The opening leans on backstory.")

	h := NewChatHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/chats/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.GetChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var detail struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if detail.ID != conv.ID {
		t.Errorf("id = %d, want %d", detail.ID, conv.ID)
	}
	if len(detail.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(detail.Messages))
	}
	if detail.Messages[0].Role != models.RoleUser || detail.Messages[1].Role != models.RoleAssistant {
		t.Errorf("message roles = %q, %q", detail.Messages[0].Role, detail.Messages[1].Role)
	}
}

func TestChatHandler_GetChat_NotFound(t *testing.T) {
	h := NewChatHandler(newMemStore(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/chats/42", nil)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	h.GetChat(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestChatHandler_GetChat_BadID(t *testing.T) {
	h := NewChatHandler(newMemStore(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/chats/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.GetChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatHandler_DeleteChat(t *testing.T) {
	store := newMemStore()
	conv, _ := store.CreateConversation(context.Background(), "to delete")

	h := NewChatHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/chats/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.DeleteChat(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if _, ok := store.conversations[conv.ID]; ok {
		t.Error("conversation still present after delete")
	}
}

func TestChatHandler_ListChats(t *testing.T) {
	store := newMemStore()
	_, _ = store.CreateConversation(context.Background(), "one")
	_, _ = store.CreateConversation(context.Background(), "two")

	h := NewChatHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	h.ListChats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var conversations []models.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conversations); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(conversations) != 2 {
		t.Errorf("conversations = %d, want 2", len(conversations))
	}
}
