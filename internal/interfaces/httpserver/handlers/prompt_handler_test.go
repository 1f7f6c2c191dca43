package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/prompt"
	"chat-platform/services/conversation-api/internal/interfaces/httpserver/handlers"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

// MockPromptService is a mock implementation of prompt.Service for testing.
type MockPromptService struct {
	AddFunc            func(ctx context.Context, userEmail, category, name, content string) error
	GetFunc            func(ctx context.Context, userEmail, category, name string) (*prompt.Prompt, error)
	ListFunc           func(ctx context.Context, userEmail, category string) ([]string, error)
	ListCategoriesFunc func(ctx context.Context, userEmail string) ([]string, error)
	UpdateFunc         func(ctx context.Context, userEmail, category, name, content string) error
	RenameFunc         func(ctx context.Context, userEmail, category, name, newName string) error
	DeleteFunc         func(ctx context.Context, userEmail, category, name string) error
	ArgsFunc           func(ctx context.Context, userEmail, category, name string) ([]string, error)
}

func (m *MockPromptService) Add(ctx context.Context, userEmail, category, name, content string) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userEmail, category, name, content)
	}
	return nil
}

func (m *MockPromptService) Get(ctx context.Context, userEmail, category, name string) (*prompt.Prompt, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userEmail, category, name)
	}
	return nil, nil
}

func (m *MockPromptService) List(ctx context.Context, userEmail, category string) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userEmail, category)
	}
	return nil, nil
}

func (m *MockPromptService) ListCategories(ctx context.Context, userEmail string) ([]string, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, userEmail)
	}
	return nil, nil
}

func (m *MockPromptService) Update(ctx context.Context, userEmail, category, name, content string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userEmail, category, name, content)
	}
	return nil
}

func (m *MockPromptService) Rename(ctx context.Context, userEmail, category, name, newName string) error {
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, userEmail, category, name, newName)
	}
	return nil
}

func (m *MockPromptService) Delete(ctx context.Context, userEmail, category, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userEmail, category, name)
	}
	return nil
}

func (m *MockPromptService) Args(ctx context.Context, userEmail, category, name string) ([]string, error) {
	if m.ArgsFunc != nil {
		return m.ArgsFunc(ctx, userEmail, category, name)
	}
	return nil, nil
}

func setupPromptTestRouter(handler *handlers.PromptHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/v1/prompts")
	{
		group.GET("/categories", handler.ListCategories)
		group.POST("/:category", handler.Add)
		group.GET("/:category", handler.List)
		group.GET("/:category/:name", handler.Get)
		group.GET("/:category/:name/args", handler.Args)
		group.PUT("/:category/:name", handler.Update)
		group.PATCH("/:category/:name", handler.Rename)
		group.DELETE("/:category/:name", handler.Delete)
	}
	return r
}

func TestPromptHandler_Get(t *testing.T) {
	mockService := &MockPromptService{
		GetFunc: func(ctx context.Context, userEmail, category, name string) (*prompt.Prompt, error) {
			return &prompt.Prompt{
				Name:     name,
				Category: category,
				Content:  "Hello {name}!",
			}, nil
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/prompts/Default/greet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["prompt"] != "Hello {name}!" {
		t.Errorf("Expected prompt content, got %v", response["prompt"])
	}
}

func TestPromptHandler_GetNotFound(t *testing.T) {
	mockService := &MockPromptService{
		GetFunc: func(ctx context.Context, userEmail, category, name string) (*prompt.Prompt, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, "prompt not found", nil, "")
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/prompts/Default/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPromptHandler_AddConflictIsClientError(t *testing.T) {
	mockService := &MockPromptService{
		AddFunc: func(ctx context.Context, userEmail, category, name, content string) error {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeConflict, "prompt already exists", nil, "")
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	body, _ := json.Marshal(map[string]string{"name": "greet", "content": "x"})
	req, _ := http.NewRequest("POST", "/v1/prompts/Default", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPromptHandler_Add(t *testing.T) {
	var gotCategory, gotName string
	mockService := &MockPromptService{
		AddFunc: func(ctx context.Context, userEmail, category, name, content string) error {
			gotCategory = category
			gotName = name
			return nil
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	body, _ := json.Marshal(map[string]string{"name": "greet", "content": "Hello"})
	req, _ := http.NewRequest("POST", "/v1/prompts/Work", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotCategory != "Work" || gotName != "greet" {
		t.Errorf("Expected Work/greet, got %s/%s", gotCategory, gotName)
	}
}

func TestPromptHandler_AddMissingBody(t *testing.T) {
	handler := handlers.NewPromptHandler(&MockPromptService{}, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	req, _ := http.NewRequest("POST", "/v1/prompts/Default", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPromptHandler_DeleteNotFound(t *testing.T) {
	mockService := &MockPromptService{
		DeleteFunc: func(ctx context.Context, userEmail, category, name string) error {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound, "prompt not found", nil, "")
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	req, _ := http.NewRequest("DELETE", "/v1/prompts/Default/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPromptHandler_Args(t *testing.T) {
	mockService := &MockPromptService{
		ArgsFunc: func(ctx context.Context, userEmail, category, name string) ([]string, error) {
			return []string{"name", "topic"}, nil
		},
	}

	handler := handlers.NewPromptHandler(mockService, zerolog.Nop())
	router := setupPromptTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/prompts/Default/letter/args", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response["prompt_args"]) != 2 {
		t.Errorf("Expected 2 args, got %v", response["prompt_args"])
	}
}
