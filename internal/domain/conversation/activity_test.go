package conversation

import (
	"strings"
	"testing"
	"time"
)

func TestTagSubactivity(t *testing.T) {
	got := TagSubactivity("[SUBACTIVITY] Reading page", "abc-123")
	want := "[SUBACTIVITY][abc-123] Reading page"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTagSubactivityDegradesWithoutParent(t *testing.T) {
	got := TagSubactivity("[SUBACTIVITY] Reading page", "")
	want := "[ACTIVITY] Reading page"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestIsActivityMarker(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"[ACTIVITY] Searching.", true},
		{"[SUBACTIVITY] step", true},
		{"[SUBACTIVITY][id-1] step", true},
		{"plain message", false},
		{"prefix [ACTIVITY] not at start", false},
	}
	for _, tc := range cases {
		if got := IsActivityMarker(tc.content); got != tc.want {
			t.Errorf("IsActivityMarker(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"hello\n", "hello"},
		{"hello\n\n", "hello"},
		{"hello\n\n\n", "hello\n"},
		{"hello\nworld\n", "hello\nworld"},
	}
	for _, tc := range cases {
		if got := TrimTrailingNewlines(tc.in); got != tc.want {
			t.Errorf("TrimTrailingNewlines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGroupActivitiesAttachesToMostRecentGroup(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*Message{
		{Content: "[ACTIVITY] First.", Timestamp: base},
		{Content: "[SUBACTIVITY][whatever] step one", Timestamp: base.Add(time.Second)},
		{Content: "plain chat message", Timestamp: base.Add(2 * time.Second)},
		{Content: "[ACTIVITY] Second.", Timestamp: base.Add(3 * time.Second)},
		// Carries the first activity's id but follows the second activity.
		{Content: "[SUBACTIVITY][stale-id] step two", Timestamp: base.Add(4 * time.Second)},
	}

	groups := GroupActivities(messages)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Subactivities) != 1 {
		t.Errorf("Expected 1 subactivity in first group, got %d", len(groups[0].Subactivities))
	}
	if len(groups[1].Subactivities) != 1 {
		t.Errorf("Expected 1 subactivity in second group, got %d", len(groups[1].Subactivities))
	}
	if groups[1].Subactivities[0].Content != "[SUBACTIVITY][stale-id] step two" {
		t.Errorf("Unexpected subactivity in second group: %q", groups[1].Subactivities[0].Content)
	}
}

func TestGroupActivitiesDropsOrphanSubactivities(t *testing.T) {
	messages := []*Message{
		{Content: "[SUBACTIVITY][id] orphan"},
		{Content: "[ACTIVITY] First."},
	}
	groups := GroupActivities(messages)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Subactivities) != 0 {
		t.Errorf("Expected no subactivities, got %d", len(groups[0].Subactivities))
	}
}

func TestRenderActivityGroups(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	groups := GroupActivities([]*Message{
		{Content: "[ACTIVITY] Searching.", Timestamp: base},
		{Content: "[SUBACTIVITY][x] found", Timestamp: base.Add(time.Second)},
	})

	rendered := RenderActivityGroups(groups)
	if !strings.HasPrefix(rendered, "### Detailed Activities:\n") {
		t.Errorf("Missing header: %q", rendered)
	}
	if !strings.Contains(rendered, "### Activity at 2025-03-01 10:00:00\n[ACTIVITY] Searching.") {
		t.Errorf("Missing activity block: %q", rendered)
	}
	if !strings.Contains(rendered, "#### Subactivity at 2025-03-01 10:00:01\n[SUBACTIVITY][x] found") {
		t.Errorf("Missing subactivity block: %q", rendered)
	}
}

func TestRenderSubactivities(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rendered := RenderSubactivities([]*Message{
		{Content: "[SUBACTIVITY][x] found", Timestamp: base},
	})
	want := "### Detailed Activities:\n#### Activity at 2025-03-01 10:00:00\n[SUBACTIVITY][x] found"
	if rendered != want {
		t.Errorf("Expected %q, got %q", want, rendered)
	}
}

func TestSubactivityPrefix(t *testing.T) {
	if got := SubactivityPrefix("abc"); got != "[SUBACTIVITY][abc]" {
		t.Errorf("Unexpected prefix %q", got)
	}
}
