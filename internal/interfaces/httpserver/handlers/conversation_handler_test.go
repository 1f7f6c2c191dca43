package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/conversation"
	"chat-platform/services/conversation-api/internal/infrastructure/auth"
	conversationrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/conversation"
	userrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/user"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/handlers"
)

func setupConversationTestRouter() (*gin.Engine, *conversation.Service) {
	gin.SetMode(gin.TestMode)

	service := conversation.NewService(
		conversationrepo.NewInMemoryRepository(),
		userrepo.NewInMemoryRepository(),
		zerolog.Nop(),
		"Assistant",
	)
	handler := handlers.NewConversationHandler(service, zerolog.Nop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.ContextUserKey, "tester@example.com")
		c.Next()
	})
	v1 := r.Group("/v1")
	{
		v1.GET("/notifications", handler.Notifications)
		group := v1.Group("/conversations")
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:name", handler.Get)
		group.PUT("/:name", handler.Rename)
		group.DELETE("/:name", handler.Delete)
		group.GET("/:name/export", handler.Export)
		group.POST("/:name/fork", handler.Fork)
		group.POST("/:name/messages", handler.LogInteraction)
		group.PUT("/:name/messages/:message_id", handler.UpdateMessage)
		group.DELETE("/:name/messages/:message_id", handler.DeleteMessage)
	}
	return r, service
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestConversationHandler_LogAndGet(t *testing.T) {
	router, _ := setupConversationTestRouter()

	w := postJSON(t, router, "/v1/conversations/chat/messages", map[string]string{
		"role":    "user",
		"message": "hello there",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var logged map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &logged); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if logged["message_id"] == "" {
		t.Error("Expected a message id")
	}

	req, _ := http.NewRequest("GET", "/v1/conversations/chat?page=1&limit=10", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var history conversation.History
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("Failed to parse history: %v", err)
	}
	if len(history.Interactions) != 1 {
		t.Fatalf("Expected 1 interaction, got %d", len(history.Interactions))
	}
	if history.Interactions[0].Role != "USER" {
		t.Errorf("Expected normalized role, got %q", history.Interactions[0].Role)
	}
}

func TestConversationHandler_LogMissingFields(t *testing.T) {
	router, _ := setupConversationTestRouter()
	w := postJSON(t, router, "/v1/conversations/chat/messages", map[string]string{"role": "user"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestConversationHandler_CreateWithSeed(t *testing.T) {
	router, _ := setupConversationTestRouter()

	w := postJSON(t, router, "/v1/conversations", map[string]any{
		"name": "seeded",
		"interactions": []map[string]string{
			{"role": "user", "message": "hi"},
			{"role": "Assistant", "message": "hello"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req, _ := http.NewRequest("GET", "/v1/conversations/seeded/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var history conversation.History
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("Failed to parse history: %v", err)
	}
	if len(history.Interactions) != 2 {
		t.Errorf("Expected 2 seeded interactions, got %d", len(history.Interactions))
	}
}

func TestConversationHandler_List(t *testing.T) {
	router, _ := setupConversationTestRouter()

	postJSON(t, router, "/v1/conversations/alpha/messages", map[string]string{
		"role": "user", "message": "hi",
	})

	req, _ := http.NewRequest("GET", "/v1/conversations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Conversations []string          `json:"conversations"`
		WithIDs       map[string]string `json:"conversations_with_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Conversations) != 1 || response.Conversations[0] != "alpha" {
		t.Errorf("Expected [alpha], got %v", response.Conversations)
	}
	if len(response.WithIDs) != 1 {
		t.Errorf("Expected 1 id mapping, got %v", response.WithIDs)
	}
}

func TestConversationHandler_ForkAndNotifications(t *testing.T) {
	router, _ := setupConversationTestRouter()

	postJSON(t, router, "/v1/conversations/main/messages", map[string]string{
		"role": "user", "message": "question",
	})
	w := postJSON(t, router, "/v1/conversations/main/messages", map[string]string{
		"role": "Assistant", "message": "answer",
	})
	var logged map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &logged); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	w = postJSON(t, router, "/v1/conversations/main/fork", map[string]string{
		"message_id": logged["message_id"],
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var forked map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &forked); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !strings.HasPrefix(forked["conversation_name"], "main_fork_") {
		t.Errorf("Unexpected fork name %q", forked["conversation_name"])
	}

	req, _ := http.NewRequest("GET", "/v1/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var notifications struct {
		Notifications []conversation.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(notifications.Notifications) != 2 {
		t.Errorf("Expected notifications from source and fork, got %d", len(notifications.Notifications))
	}
}

func TestConversationHandler_ForkUnknownMessage(t *testing.T) {
	router, _ := setupConversationTestRouter()

	postJSON(t, router, "/v1/conversations/main/messages", map[string]string{
		"role": "user", "message": "question",
	})
	w := postJSON(t, router, "/v1/conversations/main/fork", map[string]string{
		"message_id": "bogus",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestConversationHandler_UpdateAndDeleteMessage(t *testing.T) {
	router, _ := setupConversationTestRouter()

	w := postJSON(t, router, "/v1/conversations/chat/messages", map[string]string{
		"role": "user", "message": "typo",
	})
	var logged map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &logged); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	messageID := logged["message_id"]

	body, _ := json.Marshal(map[string]string{"new_content": "fixed"})
	req, _ := http.NewRequest("PUT", "/v1/conversations/chat/messages/"+messageID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req, _ = http.NewRequest("DELETE", "/v1/conversations/chat/messages/"+messageID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	req, _ = http.NewRequest("DELETE", "/v1/conversations/chat/messages/"+messageID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rec.Code)
	}
}

func TestConversationHandler_RenameAndDelete(t *testing.T) {
	router, _ := setupConversationTestRouter()

	postJSON(t, router, "/v1/conversations/old/messages", map[string]string{
		"role": "user", "message": "hi",
	})

	body, _ := json.Marshal(map[string]string{"new_name": "new"})
	req, _ := http.NewRequest("PUT", "/v1/conversations/old", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	req, _ = http.NewRequest("DELETE", "/v1/conversations/new", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	req, _ = http.NewRequest("GET", "/v1/conversations", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var response struct {
		Conversations []string `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Conversations) != 0 {
		t.Errorf("Expected no conversations, got %v", response.Conversations)
	}
}
