package models

import (
	"fmt"
	"strings"
	"time"
)

// Platform is where a chat message or session originates
type Platform string

const (
	PlatformDiscord  Platform = "discord"
	PlatformSlack    Platform = "slack"
	PlatformZoom     Platform = "zoom"
	PlatformTeams    Platform = "teams"
	PlatformYouTube  Platform = "youtube"
	PlatformInternal Platform = "internal"
)

// MessageType classifies a chat message
type MessageType string

const (
	MessagePlain        MessageType = "message"
	MessageQuestion     MessageType = "question"
	MessageSupport      MessageType = "support"
	MessageAnnouncement MessageType = "announcement"
)

// ModeratorName is the author of messages posted from the panel
const ModeratorName = "Moderator"

// ChatMessage is one message in the multi-platform chat
type ChatMessage struct {
	ID        string      `json:"id"`
	Platform  Platform    `json:"platform"`
	Channel   string      `json:"channel"`
	User      string      `json:"user"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Flagged   bool        `json:"flagged"`
	Type      MessageType `json:"type"`
}

// Channel is a chat channel with its unread counter
type Channel struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Platform Platform `json:"platform"`
	Unread   int      `json:"unread"`
}

// SessionStatus is the state of a scheduled session
type SessionStatus string

const (
	SessionUpcoming SessionStatus = "upcoming"
	SessionLive     SessionStatus = "live"
	SessionEnded    SessionStatus = "ended"
)

// EventSession is a scheduled talk or workshop
type EventSession struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Status       SessionStatus `json:"status"`
	StartTime    time.Time     `json:"start_time"`
	Duration     time.Duration `json:"duration"`
	Participants int           `json:"participants"`
	Platform     Platform      `json:"platform"`
	Moderator    string        `json:"moderator"`
}

// ActionType is a moderation action
type ActionType string

const (
	ActionMute    ActionType = "mute"
	ActionWarn    ActionType = "warn"
	ActionKick    ActionType = "kick"
	ActionBan     ActionType = "ban"
	ActionTimeout ActionType = "timeout"
)

// ActionTypes lists every action type
var ActionTypes = []ActionType{ActionMute, ActionWarn, ActionKick, ActionBan, ActionTimeout}

// ParseActionType validates an action name
func ParseActionType(s string) (ActionType, error) {
	a := ActionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ActionTypes {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown moderation action %q", ErrInvalidInput, s)
}

// RemovesMessages reports whether the action deletes the user's messages
func (a ActionType) RemovesMessages() bool {
	return a == ActionKick || a == ActionBan
}

// ModerationAction is an entry in the moderation log
type ModerationAction struct {
	Type      ActionType `json:"type"`
	User      string     `json:"user"`
	Reason    string     `json:"reason"`
	Timestamp time.Time  `json:"timestamp"`
	Removed   int        `json:"removed,omitempty"`
}
