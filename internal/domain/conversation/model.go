package conversation

import "time"

// DefaultName is the sentinel name used when no conversation name is given.
const DefaultName = "-"

// RoleUser marks user turns. Any casing of "user" is normalized to this on write.
const RoleUser = "USER"

// Conversation is a named, user-owned ordered thread of messages.
type Conversation struct {
	ID              uint
	PublicID        string
	Name            string
	UserID          uint
	Summary         *string
	AttachmentCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Message is one turn in a conversation. Activity and sub-activity log
// entries are plain messages whose content carries a tag prefix.
type Message struct {
	ID               uint
	PublicID         string
	Role             string
	Content          string
	ConversationID   uint
	Timestamp        time.Time
	UpdatedAt        time.Time
	UpdatedBy        *string
	FeedbackReceived bool
	Notify           bool
}

// Detail is the per-conversation record returned by the detailed listing.
type Detail struct {
	PublicID         string `json:"id"`
	Name             string `json:"name"`
	AgentName        string `json:"agent_name"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	HasNotifications bool   `json:"has_notifications"`
	Summary          string `json:"summary"`
	AttachmentCount  int    `json:"attachment_count"`
}

// Notification is an unread agent message annotated with its parent conversation.
type Notification struct {
	ConversationID   string `json:"conversation_id"`
	ConversationName string `json:"conversation_name"`
	MessageID        string `json:"message_id"`
	Message          string `json:"message"`
	Role             string `json:"role"`
	Timestamp        string `json:"timestamp"`
}

// Interaction is one exported or paged message turn.
type Interaction struct {
	ID               string  `json:"id,omitempty"`
	Role             string  `json:"role"`
	Message          string  `json:"message"`
	Timestamp        string  `json:"timestamp"`
	UpdatedAt        string  `json:"updated_at,omitempty"`
	UpdatedBy        *string `json:"updated_by,omitempty"`
	FeedbackReceived bool    `json:"feedback_received,omitempty"`
}

// History is the envelope returned by export and page retrieval.
type History struct {
	Interactions []Interaction `json:"interactions"`
}

// ActivityEntry is one activity message in the paginated activity log.
type ActivityEntry struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ActivityLog is the envelope returned by the activity listing.
type ActivityLog struct {
	Activities []ActivityEntry `json:"activities"`
}

// Pagination selects a 1-indexed page of a fixed size.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
