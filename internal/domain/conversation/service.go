package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chat-platform/services/conversation-api/internal/domain/user"
	"chat-platform/services/conversation-api/internal/utils/platformerrors"
	"chat-platform/services/conversation-api/internal/utils/timeutil"
)

// Service owns conversation persistence for all users. Per-conversation
// work goes through a Store handle obtained from Open.
type Service struct {
	repo         Repository
	users        user.Repository
	log          zerolog.Logger
	defaultAgent string
	now          func() time.Time
}

// Option customizes the service at construction time.
type Option func(*Service)

// WithClock overrides the timestamp source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the conversation service with its repositories.
func NewService(repo Repository, users user.Repository, log zerolog.Logger, defaultAgent string, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		users:        users,
		log:          log.With().Str("component", "conversation-service").Logger(),
		defaultAgent: defaultAgent,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a handle scoped to one (conversation name, user) pair. The
// handle holds no database session; every operation acquires and releases
// its own context-scoped access.
func (s *Service) Open(userEmail, conversationName string) *Store {
	if conversationName == "" {
		conversationName = DefaultName
	}
	return &Store{
		svc:   s,
		email: userEmail,
		name:  conversationName,
	}
}

// Store is a per-(conversation name, user) handle over the service.
type Store struct {
	svc   *Service
	email string
	name  string
	owner *user.User
}

// Name returns the conversation name the handle is scoped to.
func (st *Store) Name() string {
	return st.name
}

func (st *Store) user(ctx context.Context) (*user.User, error) {
	if st.owner != nil {
		return st.owner, nil
	}
	u, err := st.svc.users.GetOrCreateByEmail(ctx, st.email)
	if err != nil {
		return nil, err
	}
	st.owner = u
	return u, nil
}

// find returns the conversation row, or nil when none exists yet.
func (st *Store) find(ctx context.Context, u *user.User) (*Conversation, error) {
	conv, err := st.svc.repo.FindConversation(ctx, u.ID, st.name)
	if err != nil {
		if platformerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return conv, nil
}

func (st *Store) create(ctx context.Context, u *user.User) (*Conversation, error) {
	conv := &Conversation{Name: st.name, UserID: u.ID}
	if err := st.svc.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (st *Store) ensure(ctx context.Context, u *user.User) (*Conversation, error) {
	conv, err := st.find(ctx, u)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	return st.create(ctx, u)
}

// ConversationID resolves the conversation's public id, creating an empty
// conversation when none exists. Repeated calls return the same id.
func (st *Store) ConversationID(ctx context.Context) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.ensure(ctx, u)
	if err != nil {
		return "", err
	}
	return conv.PublicID, nil
}

// ConversationNameByID resolves a conversation name from its public id.
// The sentinel id "-" normalizes back to the sentinel name without a
// lookup; unknown ids degrade to the sentinel name.
func (st *Store) ConversationNameByID(ctx context.Context, publicID string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	if publicID == DefaultName {
		if _, err := st.svc.Open(st.email, DefaultName).ConversationID(ctx); err != nil {
			return "", err
		}
		return DefaultName, nil
	}
	conv, err := st.svc.repo.FindConversationByPublicID(ctx, u.ID, publicID)
	if err != nil {
		if platformerrors.IsNotFound(err) {
			return DefaultName, nil
		}
		return "", err
	}
	return conv.Name, nil
}

// ListConversations returns the names of the user's conversations that have
// at least one message, most recently updated first.
func (st *Store) ListConversations(ctx context.Context) ([]string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	convs, err := st.svc.repo.ListConversations(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(convs))
	for _, conv := range convs {
		names = append(names, conv.Name)
	}
	return names, nil
}

// ListConversationsWithIDs maps public conversation ids to names, with the
// same filtering and ordering as ListConversations.
func (st *Store) ListConversationsWithIDs(ctx context.Context) (map[string]string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	convs, err := st.svc.repo.ListConversations(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(convs))
	for _, conv := range convs {
		result[conv.PublicID] = conv.Name
	}
	return result, nil
}

// ListConversationsWithDetail returns per-conversation detail records keyed
// by public id: unread-notification state, display timestamps, summary with
// a "None available" fallback, and attachment count.
func (st *Store) ListConversationsWithDetail(ctx context.Context) (map[string]Detail, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	records, err := st.svc.repo.ListConversationDetails(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	result := make(map[string]Detail, len(records))
	for _, record := range records {
		conv := record.Conversation
		summary := "None available"
		if conv.Summary != nil && *conv.Summary != "" {
			summary = *conv.Summary
		}
		result[conv.PublicID] = Detail{
			PublicID:         conv.PublicID,
			Name:             conv.Name,
			AgentName:        st.agentName(ctx, conv.ID),
			CreatedAt:        timeutil.ConvertTime(conv.CreatedAt, u.Timezone),
			UpdatedAt:        timeutil.ConvertTime(conv.UpdatedAt, u.Timezone),
			HasNotifications: record.NotificationCount > 0,
			Summary:          summary,
			AttachmentCount:  conv.AttachmentCount,
		}
	}
	return result, nil
}

func (st *Store) agentName(ctx context.Context, conversationID uint) string {
	msg, err := st.svc.repo.LatestAgentMessage(ctx, conversationID)
	if err != nil {
		return st.svc.defaultAgent
	}
	return msg.Role
}

// Export returns every message of the conversation with raw timestamps.
// An absent conversation exports an empty interaction list.
func (st *Store) Export(ctx context.Context) (History, error) {
	history := History{Interactions: []Interaction{}}
	u, err := st.user(ctx)
	if err != nil {
		return history, err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return history, err
	}
	messages, err := st.svc.repo.ListMessages(ctx, conv.ID, nil)
	if err != nil {
		return history, err
	}
	for _, msg := range messages {
		history.Interactions = append(history.Interactions, Interaction{
			Role:      msg.Role,
			Message:   msg.Content,
			Timestamp: msg.Timestamp.UTC().Format(timeutil.DisplayFormat),
		})
	}
	return history, nil
}

// GetConversation returns one page of messages, oldest first. The
// conversation is created when absent; when it already existed, fetching a
// page marks every notification in the conversation as read, including
// messages outside the requested page.
func (st *Store) GetConversation(ctx context.Context, page Pagination) (History, error) {
	history := History{Interactions: []Interaction{}}
	u, err := st.user(ctx)
	if err != nil {
		return history, err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return history, err
	}
	if conv == nil {
		if conv, err = st.create(ctx, u); err != nil {
			return history, err
		}
	} else if err := st.svc.repo.ClearNotifications(ctx, conv.ID); err != nil {
		return history, err
	}
	messages, err := st.svc.repo.ListMessages(ctx, conv.ID, &page)
	if err != nil {
		return history, err
	}
	for _, msg := range messages {
		history.Interactions = append(history.Interactions, Interaction{
			ID:               msg.PublicID,
			Role:             msg.Role,
			Message:          msg.Content,
			Timestamp:        timeutil.ConvertTime(msg.Timestamp, u.Timezone),
			UpdatedAt:        timeutil.ConvertTime(msg.UpdatedAt, u.Timezone),
			UpdatedBy:        msg.UpdatedBy,
			FeedbackReceived: msg.FeedbackReceived,
		})
	}
	return history, nil
}

// GetNotifications returns all unread messages across the user's
// conversations, newest first.
func (st *Store) GetNotifications(ctx context.Context) ([]Notification, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	records, err := st.svc.repo.ListNotifications(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	result := make([]Notification, 0, len(records))
	for _, record := range records {
		result = append(result, Notification{
			ConversationID:   record.ConversationPublicID,
			ConversationName: record.ConversationName,
			MessageID:        record.Message.PublicID,
			Message:          record.Message.Content,
			Role:             record.Message.Role,
			Timestamp:        timeutil.ConvertTime(record.Message.Timestamp, u.Timezone),
		})
	}
	return result, nil
}

// LogInteraction stores one message turn. Roles spelling "user" in any
// casing are normalized to USER; bare sub-activity tags are rewritten to
// reference their parent activity; notifications are raised only for agent
// messages that are not activity-tree entries. Returns the new message's
// public id.
func (st *Store) LogInteraction(ctx context.Context, role, message string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(message, SubactivityTag+" ") {
		message = TagSubactivity(message, st.resolveParentActivity(ctx, conv, role))
	}

	notify := false
	if strings.EqualFold(role, RoleUser) {
		role = RoleUser
	} else if !IsActivityMarker(message) {
		notify = true
	}

	if conv == nil {
		if conv, err = st.create(ctx, u); err != nil {
			return "", err
		}
	}

	message = TrimTrailingNewlines(message)
	msg, err := st.insert(ctx, conv, role, message, notify)
	if err != nil {
		// The conversation reference may be stale (deleted underneath the
		// handle). Recreate it and retry once.
		conv, cerr := st.create(ctx, u)
		if cerr != nil {
			return "", err
		}
		if msg, err = st.insert(ctx, conv, role, message, notify); err != nil {
			return "", err
		}
	}

	st.logInteraction(role, message)
	return msg.PublicID, nil
}

// resolveParentActivity finds the public id the sub-activity should attach
// to: the most recent non-thinking activity, or the thinking placeholder
// when that lookup fails. An empty result degrades the entry to a plain
// activity.
func (st *Store) resolveParentActivity(ctx context.Context, conv *Conversation, role string) string {
	if conv == nil {
		return ""
	}
	parent, err := st.svc.repo.LatestActivity(ctx, conv.ID, false)
	if err == nil {
		return parent.PublicID
	}
	if platformerrors.IsNotFound(err) {
		return ""
	}
	thinkingID, terr := st.thinkingID(ctx, conv, role)
	if terr != nil {
		return ""
	}
	return thinkingID
}

func (st *Store) insert(ctx context.Context, conv *Conversation, role, content string, notify bool) (*Message, error) {
	msg := &Message{
		Role:           role,
		Content:        content,
		ConversationID: conv.ID,
		Timestamp:      st.svc.now(),
		Notify:         notify,
	}
	if err := st.svc.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := st.svc.repo.TouchConversation(ctx, conv.ID); err != nil {
		return nil, err
	}
	return msg, nil
}

func (st *Store) logInteraction(role, message string) {
	event := st.svc.log.Info()
	if strings.Contains(message, "[ERROR]") {
		event = st.svc.log.Error()
	} else if strings.Contains(message, "[WARN]") {
		event = st.svc.log.Warn()
	}
	event.Str("conversation", st.name).Str("role", role).Msg(message)
}

// GetActivities returns one page of activity entries, oldest first.
func (st *Store) GetActivities(ctx context.Context, page Pagination) (ActivityLog, error) {
	activities := ActivityLog{Activities: []ActivityEntry{}}
	u, err := st.user(ctx)
	if err != nil {
		return activities, err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return activities, err
	}
	messages, err := st.svc.repo.ListMessages(ctx, conv.ID, &page)
	if err != nil {
		return activities, err
	}
	for _, msg := range messages {
		if !IsActivity(msg.Content) {
			continue
		}
		activities.Activities = append(activities.Activities, ActivityEntry{
			ID:        msg.PublicID,
			Role:      msg.Role,
			Message:   msg.Content,
			Timestamp: msg.Timestamp.UTC().Format(timeutil.DisplayFormat),
		})
	}
	return activities, nil
}

// GetSubactivities renders the sub-activities attached to one activity id
// as a markdown block.
func (st *Store) GetSubactivities(ctx context.Context, activityID string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return "", err
	}
	messages, err := st.svc.repo.ListMessages(ctx, conv.ID, nil)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}
	prefix := SubactivityPrefix(activityID)
	matched := make([]*Message, 0, len(messages))
	for _, msg := range messages {
		if strings.HasPrefix(msg.Content, prefix) {
			matched = append(matched, msg)
		}
	}
	return RenderSubactivities(matched), nil
}

// GetActivitiesWithSubactivities renders the whole activity tree as nested
// markdown. Sub-activities belong to the most recently opened activity
// group, not to the id encoded in their own tag.
func (st *Store) GetActivitiesWithSubactivities(ctx context.Context) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return "", err
	}
	messages, err := st.svc.repo.ListMessages(ctx, conv.ID, nil)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}
	return RenderActivityGroups(GroupActivities(messages)), nil
}

// ThinkingID returns the id of a thinking placeholder activity usable as a
// sub-activity parent, creating or reusing one per the recency of the last
// real activity.
func (st *Store) ThinkingID(ctx context.Context, agentName string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", st.name), nil, "")
	}
	return st.thinkingID(ctx, conv, agentName)
}

func (st *Store) thinkingID(ctx context.Context, conv *Conversation, agentName string) (string, error) {
	parent, err := st.svc.repo.LatestActivity(ctx, conv.ID, false)
	if err != nil && !platformerrors.IsNotFound(err) {
		return "", err
	}
	thinking, err := st.svc.repo.LatestThinking(ctx, conv.ID)
	if err != nil && !platformerrors.IsNotFound(err) {
		return "", err
	}

	// The existing placeholder is reused only while it is strictly newer
	// than the last real activity; a tie means the activity closed it.
	if parent != nil && (thinking == nil || !thinking.Timestamp.After(parent.Timestamp)) {
		return st.insertThinking(ctx, conv, agentName)
	}
	if thinking != nil {
		return thinking.PublicID, nil
	}
	return st.insertThinking(ctx, conv, agentName)
}

func (st *Store) insertThinking(ctx context.Context, conv *Conversation, agentName string) (string, error) {
	msg, err := st.insert(ctx, conv, agentName, ThinkingContent, false)
	if err != nil {
		return "", err
	}
	return msg.PublicID, nil
}

// Fork copies the timestamp-bounded prefix ending at the given message into
// a brand-new conversation named "<name>_fork_<timestamp>". Copies keep
// their role, content, timestamps and feedback flags; only the last copy is
// marked for notification. Returns the new conversation's name.
func (st *Store) Fork(ctx context.Context, messageID string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", st.name), nil, "")
	}
	target, err := st.svc.repo.FindMessage(ctx, conv.ID, messageID)
	if err != nil {
		return "", err
	}
	messages, err := st.svc.repo.ListMessagesUpTo(ctx, conv.ID, target.Timestamp)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"no messages to fork", nil, "")
	}

	copies := make([]*Message, 0, len(messages))
	for i, msg := range messages {
		copies = append(copies, &Message{
			Role:             msg.Role,
			Content:          msg.Content,
			Timestamp:        msg.Timestamp,
			UpdatedBy:        msg.UpdatedBy,
			FeedbackReceived: msg.FeedbackReceived,
			Notify:           i == len(messages)-1,
		})
	}

	newName := fmt.Sprintf("%s_fork_%s", st.name, st.svc.now().Format("20060102_150405"))
	forked, err := st.svc.repo.ForkConversation(ctx, u.ID, newName, copies)
	if err != nil {
		return "", err
	}
	st.svc.log.Info().Str("conversation", st.name).Str("fork_id", forked.PublicID).Msg("conversation forked")
	return newName, nil
}

// NewConversation creates the conversation when absent and seeds it with
// the given interactions. Returns the conversation either way.
func (st *Store) NewConversation(ctx context.Context, seed []Interaction) (*Conversation, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}
	if conv, err = st.create(ctx, u); err != nil {
		return nil, err
	}
	for _, interaction := range seed {
		if _, err := st.LogInteraction(ctx, interaction.Role, interaction.Message); err != nil {
			return nil, err
		}
	}
	return conv, nil
}

// DeleteConversation removes the conversation and all its messages.
func (st *Store) DeleteConversation(ctx context.Context) error {
	u, err := st.user(ctx)
	if err != nil {
		return err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return err
	}
	return st.svc.repo.DeleteConversation(ctx, conv.ID)
}

// resolveByContent finds a message by exact content match, reporting an
// explicit NotFound when no row matches.
func (st *Store) resolveByContent(ctx context.Context, content string) (*Message, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", st.name), nil, "")
	}
	return st.svc.repo.FindMessageByContent(ctx, conv.ID, content)
}

func (st *Store) resolveByID(ctx context.Context, messageID string) (*Message, error) {
	u, err := st.user(ctx)
	if err != nil {
		return nil, err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("conversation not found: %s", st.name), nil, "")
	}
	return st.svc.repo.FindMessage(ctx, conv.ID, messageID)
}

// DeleteMessage removes the message whose content exactly matches.
func (st *Store) DeleteMessage(ctx context.Context, content string) error {
	msg, err := st.resolveByContent(ctx, content)
	if err != nil {
		return err
	}
	return st.svc.repo.DeleteMessage(ctx, msg.ID)
}

// DeleteMessageByID removes a message by its public id.
func (st *Store) DeleteMessageByID(ctx context.Context, messageID string) error {
	msg, err := st.resolveByID(ctx, messageID)
	if err != nil {
		return err
	}
	return st.svc.repo.DeleteMessage(ctx, msg.ID)
}

// UpdateMessage replaces the content of the message matching the old content.
func (st *Store) UpdateMessage(ctx context.Context, content, newContent string) error {
	msg, err := st.resolveByContent(ctx, content)
	if err != nil {
		return err
	}
	return st.svc.repo.UpdateMessageContent(ctx, msg.ID, newContent)
}

// UpdateMessageByID replaces a message's content by public id.
func (st *Store) UpdateMessageByID(ctx context.Context, messageID, newContent string) error {
	msg, err := st.resolveByID(ctx, messageID)
	if err != nil {
		return err
	}
	return st.svc.repo.UpdateMessageContent(ctx, msg.ID, newContent)
}

// MessageByID returns a message's content by public id.
func (st *Store) MessageByID(ctx context.Context, messageID string) (string, error) {
	msg, err := st.resolveByID(ctx, messageID)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// ToggleFeedbackReceived flips the feedback flag of the message matching
// the content.
func (st *Store) ToggleFeedbackReceived(ctx context.Context, content string) error {
	msg, err := st.resolveByContent(ctx, content)
	if err != nil {
		return err
	}
	return st.svc.repo.SetMessageFeedback(ctx, msg.ID, !msg.FeedbackReceived)
}

// HasReceivedFeedback reports the feedback flag of the message matching
// the content.
func (st *Store) HasReceivedFeedback(ctx context.Context, content string) (bool, error) {
	msg, err := st.resolveByContent(ctx, content)
	if err != nil {
		return false, err
	}
	return msg.FeedbackReceived, nil
}

// RenameConversation renames the conversation in place, creating it under
// the current name first when absent. The handle follows the new name.
func (st *Store) RenameConversation(ctx context.Context, newName string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return "", err
	}
	if conv == nil {
		if _, err := st.create(ctx, u); err != nil {
			return "", err
		}
		return newName, nil
	}
	if err := st.svc.repo.RenameConversation(ctx, conv.ID, newName); err != nil {
		return "", err
	}
	st.name = newName
	return newName, nil
}

// SetSummary stores the conversation summary. A missing conversation is a
// silent no-op returning an empty summary.
func (st *Store) SetSummary(ctx context.Context, summary string) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return "", err
	}
	if err := st.svc.repo.UpdateSummary(ctx, conv.ID, summary); err != nil {
		return "", err
	}
	return summary, nil
}

// Summary returns the stored conversation summary, empty when unset or the
// conversation is absent.
func (st *Store) Summary(ctx context.Context) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return "", err
	}
	if conv.Summary == nil {
		return "", nil
	}
	return *conv.Summary, nil
}

// AttachmentCount returns the stored attachment count, zero when absent.
func (st *Store) AttachmentCount(ctx context.Context) (int, error) {
	u, err := st.user(ctx)
	if err != nil {
		return 0, err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return 0, err
	}
	return conv.AttachmentCount, nil
}

// UpdateAttachmentCount overwrites the attachment count.
func (st *Store) UpdateAttachmentCount(ctx context.Context, count int) (int, error) {
	u, err := st.user(ctx)
	if err != nil {
		return 0, err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return 0, err
	}
	if err := st.svc.repo.UpdateAttachmentCount(ctx, conv.ID, count); err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementAttachmentCount bumps the attachment count by one and returns
// the new value.
func (st *Store) IncrementAttachmentCount(ctx context.Context) (int, error) {
	u, err := st.user(ctx)
	if err != nil {
		return 0, err
	}
	conv, err := st.find(ctx, u)
	if err != nil || conv == nil {
		return 0, err
	}
	count := conv.AttachmentCount + 1
	if err := st.svc.repo.UpdateAttachmentCount(ctx, conv.ID, count); err != nil {
		return 0, err
	}
	return count, nil
}

// LastAgentName returns the role of the most recent non-user message, or
// the configured default agent name when none exists.
func (st *Store) LastAgentName(ctx context.Context) (string, error) {
	u, err := st.user(ctx)
	if err != nil {
		return "", err
	}
	conv, err := st.find(ctx, u)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return st.svc.defaultAgent, nil
	}
	msg, err := st.svc.repo.LatestAgentMessage(ctx, conv.ID)
	if err != nil {
		if platformerrors.IsNotFound(err) {
			return st.svc.defaultAgent, nil
		}
		return "", err
	}
	return msg.Role, nil
}
