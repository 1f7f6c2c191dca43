package prompt_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/prompt"
	promptrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/prompt"
	userrepo "chat-platform/services/conversation-api/internal/infrastructure/repository/user"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
)

const testUser = "tester@example.com"

func newTestService() prompt.Service {
	return prompt.NewService(
		promptrepo.NewInMemoryRepository(),
		userrepo.NewInMemoryRepository(),
		zerolog.Nop(),
	)
}

func TestAddAndGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Add(ctx, testUser, "", "greet", "Hello {name}!"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// An empty category normalizes to Default on write and on read.
	p, err := svc.Get(ctx, testUser, "Default", "greet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Category != prompt.DefaultCategory {
		t.Errorf("Expected Default category, got %q", p.Category)
	}
	if p.Content != "Hello {name}!" {
		t.Errorf("Unexpected content %q", p.Content)
	}
}

func TestAddDuplicateConflicts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Add(ctx, testUser, "Default", "greet", "one"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := svc.Add(ctx, testUser, "Default", "greet", "two")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("Expected Conflict, got %v", err)
	}

	// Same name in another category is fine.
	if err := svc.Add(ctx, testUser, "Work", "greet", "three"); err != nil {
		t.Errorf("Add in other category: %v", err)
	}
}

func TestListAndCategories(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, name := range []string{"beta", "alpha"} {
		if err := svc.Add(ctx, testUser, "Default", name, "x"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := svc.Add(ctx, testUser, "Work", "report", "y"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	names, err := svc.List(ctx, testUser, "Default")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Errorf("Expected sorted names, got %v", names)
	}

	categories, err := svc.ListCategories(ctx, testUser)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(categories, []string{"Default", "Work"}) {
		t.Errorf("Expected sorted categories, got %v", categories)
	}
}

func TestUpdateRenameDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Add(ctx, testUser, "Default", "draft", "v1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Update(ctx, testUser, "Default", "draft", "v2"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p, err := svc.Get(ctx, testUser, "Default", "draft")
	if err != nil || p.Content != "v2" {
		t.Fatalf("Expected v2, got %+v (%v)", p, err)
	}

	if err := svc.Rename(ctx, testUser, "Default", "draft", "final"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := svc.Get(ctx, testUser, "Default", "draft"); !platformerrors.IsNotFound(err) {
		t.Errorf("Expected NotFound for old name, got %v", err)
	}

	if err := svc.Delete(ctx, testUser, "Default", "final"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, testUser, "Default", "final"); !platformerrors.IsNotFound(err) {
		t.Errorf("Expected NotFound on double delete, got %v", err)
	}
}

func TestMutationsOnMissingPromptReportNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Update(ctx, testUser, "Default", "ghost", "x"); !platformerrors.IsNotFound(err) {
		t.Errorf("Update: expected NotFound, got %v", err)
	}
	if err := svc.Rename(ctx, testUser, "Default", "ghost", "y"); !platformerrors.IsNotFound(err) {
		t.Errorf("Rename: expected NotFound, got %v", err)
	}
}

func TestArgs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Add(ctx, testUser, "Default", "letter", "Dear {name}, about {topic}. Regards, {name}"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	args, err := svc.Args(ctx, testUser, "Default", "letter")
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	if !reflect.DeepEqual(args, []string{"name", "topic"}) {
		t.Errorf("Expected deduplicated args in order, got %v", args)
	}
}

func TestExtractArgs(t *testing.T) {
	cases := []struct {
		content string
		want    []string
	}{
		{"no args", []string{}},
		{"{a} {b} {a}", []string{"a", "b"}},
		{"nested {{literal}} braces", []string{"literal"}},
	}
	for _, tc := range cases {
		if got := prompt.ExtractArgs(tc.content); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ExtractArgs(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}
