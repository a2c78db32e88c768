package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/foxzi/hackflow/internal/web/models"
)

// RecentActionsLimit is how many log entries the moderation panel shows
const RecentActionsLimit = 5

// DefaultChannel is the channel selected when none is given
const DefaultChannel = "general"

// ChatRepository holds the moderation panel state: sessions, channels, chat
// messages and the action log.
type ChatRepository struct {
	mu       sync.RWMutex
	sessions []models.EventSession
	channels []models.Channel
	messages []models.ChatMessage
	actions  []models.ModerationAction
	now      func() time.Time
}

// NewChatRepository creates a repository seeded with the demo event
func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		sessions: seedSessions(),
		channels: seedChannels(),
		messages: seedMessages(),
		now:      time.Now,
	}
}

func seedSessions() []models.EventSession {
	at := func(h int) time.Time { return time.Date(2024, 2, 10, h, 0, 0, 0, time.UTC) }
	return []models.EventSession{
		{ID: "1", Name: "Opening Ceremony", Status: models.SessionLive, StartTime: at(9), Duration: 60 * time.Minute, Participants: 847, Platform: models.PlatformZoom, Moderator: "Sarah Chen"},
		{ID: "2", Name: "AI Workshop - Session 1", Status: models.SessionUpcoming, StartTime: at(11), Duration: 120 * time.Minute, Participants: 234, Platform: models.PlatformDiscord, Moderator: "Mike Rodriguez"},
		{ID: "3", Name: "Team Formation", Status: models.SessionUpcoming, StartTime: at(14), Duration: 90 * time.Minute, Participants: 156, Platform: models.PlatformTeams, Moderator: "Emma Wilson"},
	}
}

func seedChannels() []models.Channel {
	return []models.Channel{
		{ID: "general", Name: "General", Platform: models.PlatformDiscord, Unread: 12},
		{ID: "tech-help", Name: "Tech Help", Platform: models.PlatformDiscord, Unread: 8},
		{ID: "announcements", Name: "Announcements", Platform: models.PlatformSlack, Unread: 0},
		{ID: "team-formation", Name: "Team Formation", Platform: models.PlatformDiscord, Unread: 23},
		{ID: "mentorship", Name: "Mentorship", Platform: models.PlatformSlack, Unread: 5},
		{ID: "random", Name: "Random", Platform: models.PlatformDiscord, Unread: 2},
	}
}

func seedMessages() []models.ChatMessage {
	at := func(m int) time.Time { return time.Date(2024, 2, 10, 10, m, 0, 0, time.UTC) }
	msgs := []models.ChatMessage{
		{Platform: models.PlatformDiscord, Channel: "general", User: "Alex_Dev", Message: "When does the coding phase start?", Timestamp: at(32), Type: models.MessageQuestion},
		{Platform: models.PlatformSlack, Channel: "help-desk", User: "maria.garcia", Message: "Having trouble accessing the GitHub repository", Timestamp: at(35), Type: models.MessageSupport},
		{Platform: models.PlatformDiscord, Channel: "general", User: "spam_user_123", Message: "Check out this amazing crypto opportunity!!!", Timestamp: at(38), Flagged: true, Type: models.MessagePlain},
		{Platform: models.PlatformInternal, Channel: "announcements", User: "HackNation_Bot", Message: "🚀 Reminder: Technical mentorship sessions available in #tech-help", Timestamp: at(40), Type: models.MessageAnnouncement},
	}
	for i := range msgs {
		msgs[i].ID = messageID(msgs[i].Timestamp)
	}
	return msgs
}

// Sessions returns the scheduled sessions
func (r *ChatRepository) Sessions() []models.EventSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.EventSession, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// ActiveSession returns the first live session, or nil
func (r *ChatRepository) ActiveSession() *models.EventSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.sessions {
		if r.sessions[i].Status == models.SessionLive {
			s := r.sessions[i]
			return &s
		}
	}
	return nil
}

// Channels returns the channel list with unread counters
func (r *ChatRepository) Channels() []models.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Channel, len(r.channels))
	copy(out, r.channels)
	return out
}

// Messages returns the messages posted to channel, oldest first
func (r *ChatRepository) Messages(channel string) []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ChatMessage{}
	for _, m := range r.messages {
		if m.Channel == channel {
			out = append(out, m)
		}
	}
	return out
}

// Append stores a message. Validation is the caller's job.
func (r *ChatRepository) Append(msg models.ChatMessage) models.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Timestamp.IsZero() {
		msg.Timestamp = r.now()
	}
	if msg.ID == "" {
		msg.ID = messageID(msg.Timestamp)
	}
	r.messages = append(r.messages, msg)
	return msg
}

// ToggleFlag flips the flagged state of a message
func (r *ChatRepository) ToggleFlag(id string) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].Flagged = !r.messages[i].Flagged
			m := r.messages[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("message %s: %w", id, models.ErrNotFound)
}

// RecordAction appends an action to the log. Kick and ban remove every
// message by the user; the number removed is stored on the entry.
func (r *ChatRepository) RecordAction(action models.ModerationAction) models.ModerationAction {
	r.mu.Lock()
	defer r.mu.Unlock()

	if action.Timestamp.IsZero() {
		action.Timestamp = r.now()
	}

	if action.Type.RemovesMessages() {
		kept := r.messages[:0]
		for _, m := range r.messages {
			if m.User != action.User {
				kept = append(kept, m)
			}
		}
		action.Removed = len(r.messages) - len(kept)
		clear(r.messages[len(kept):])
		r.messages = kept
	}

	r.actions = append(r.actions, action)
	return action
}

// RecentActions returns up to limit log entries, newest first
func (r *ChatRepository) RecentActions(limit int) []models.ModerationAction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.actions)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]models.ModerationAction, 0, n)
	for i := len(r.actions) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.actions[i])
	}
	return out
}
