package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Activity tagging convention: activities and sub-activities are not a
// separate table. A message whose content starts with ActivityTag is a
// top-level activity; SubactivityTag entries are rewritten at log time to
// carry the public id of their parent activity.
const (
	ActivityTag     = "[ACTIVITY]"
	SubactivityTag  = "[SUBACTIVITY]"
	ThinkingContent = "[ACTIVITY] Thinking."
)

// IsActivity reports whether content is a top-level activity entry.
func IsActivity(content string) bool {
	return strings.HasPrefix(content, ActivityTag)
}

// IsSubactivity reports whether content is a sub-activity entry, with or
// without a parent id already encoded.
func IsSubactivity(content string) bool {
	return strings.HasPrefix(content, SubactivityTag)
}

// IsActivityMarker reports whether content is any activity-tree entry.
// Such messages never raise a notification.
func IsActivityMarker(content string) bool {
	return IsActivity(content) || IsSubactivity(content)
}

// TagSubactivity rewrites a bare "[SUBACTIVITY] " prefix to carry the
// parent activity id. An empty parent id degrades the entry to a plain
// activity so it is never orphaned.
func TagSubactivity(content, parentID string) string {
	if parentID == "" {
		return strings.Replace(content, SubactivityTag+" ", ActivityTag+" ", 1)
	}
	return strings.Replace(content, SubactivityTag+" ", fmt.Sprintf("%s[%s] ", SubactivityTag, parentID), 1)
}

// SubactivityPrefix returns the content prefix of sub-activities attached
// to the given activity id.
func SubactivityPrefix(activityID string) string {
	return fmt.Sprintf("%s[%s]", SubactivityTag, activityID)
}

// TrimTrailingNewlines strips at most two trailing newline characters.
func TrimTrailingNewlines(content string) string {
	content = strings.TrimSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\n")
	return content
}

// ActivityGroup is one activity with the sub-activities that followed it.
type ActivityGroup struct {
	Activity      *Message
	Subactivities []*Message
}

// GroupActivities walks messages in timestamp order. Each activity opens a
// new group; a sub-activity joins whichever group was most recently opened,
// regardless of the parent id encoded in its own tag.
func GroupActivities(messages []*Message) []ActivityGroup {
	var groups []ActivityGroup
	var current *ActivityGroup
	for _, msg := range messages {
		switch {
		case IsActivity(msg.Content):
			if current != nil {
				groups = append(groups, *current)
			}
			current = &ActivityGroup{Activity: msg}
		case IsSubactivity(msg.Content):
			if current != nil {
				current.Subactivities = append(current.Subactivities, msg)
			}
		}
	}
	if current != nil {
		groups = append(groups, *current)
	}
	return groups
}

// RenderSubactivities renders sub-activity messages as a markdown block.
func RenderSubactivities(messages []*Message) string {
	entries := make([]string, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, fmt.Sprintf("#### Activity at %s\n%s", renderTime(msg.Timestamp), msg.Content))
	}
	return "### Detailed Activities:\n" + strings.Join(entries, "\n")
}

// RenderActivityGroups renders grouped activities as nested markdown.
func RenderActivityGroups(groups []ActivityGroup) string {
	blocks := make([]string, 0, len(groups))
	for _, group := range groups {
		var b strings.Builder
		fmt.Fprintf(&b, "### Activity at %s\n%s\n", renderTime(group.Activity.Timestamp), group.Activity.Content)
		subs := make([]string, 0, len(group.Subactivities))
		for _, sub := range group.Subactivities {
			subs = append(subs, fmt.Sprintf("#### Subactivity at %s\n%s", renderTime(sub.Timestamp), sub.Content))
		}
		b.WriteString(strings.Join(subs, "\n"))
		blocks = append(blocks, b.String())
	}
	return "### Detailed Activities:\n" + strings.Join(blocks, "\n")
}

func renderTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
