// Package moderation implements the live-chat moderation panel actions.
package moderation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/ratelimit"
	"github.com/foxzi/hackflow/internal/web/live"
	"github.com/foxzi/hackflow/internal/web/models"
	"github.com/foxzi/hackflow/internal/web/repository"
)

// Broadcaster delivers panel events to live clients
type Broadcaster interface {
	Broadcast(eventType string, data any)
}

// Service applies moderator input to the chat repository and announces the
// result on the live feed.
type Service struct {
	chat      *repository.ChatRepository
	limiter   *ratelimit.Limiter
	events    Broadcaster
	maxLength int
	logger    *slog.Logger
}

// NewService creates a moderation service. limiter and events may be nil.
func NewService(chat *repository.ChatRepository, limiter *ratelimit.Limiter, events Broadcaster, maxLength int, logger *slog.Logger) *Service {
	return &Service{
		chat:      chat,
		limiter:   limiter,
		events:    events,
		maxLength: maxLength,
		logger:    logger,
	}
}

// Panel is everything the moderation page shows for one channel
type Panel struct {
	ActiveSession *models.EventSession
	Sessions      []models.EventSession
	Channels      []models.Channel
	Channel       string
	Messages      []models.ChatMessage
	RecentActions []models.ModerationAction
	ActionTypes   []models.ActionType
	SlowMode      bool
	MaxLength     int
}

// Panel collects the page state for channel. An empty channel selects the
// default one.
func (s *Service) Panel(channel string) Panel {
	if channel == "" {
		channel = repository.DefaultChannel
	}
	return Panel{
		ActiveSession: s.chat.ActiveSession(),
		Sessions:      s.chat.Sessions(),
		Channels:      s.chat.Channels(),
		Channel:       channel,
		Messages:      s.chat.Messages(channel),
		RecentActions: s.chat.RecentActions(repository.RecentActionsLimit),
		ActionTypes:   models.ActionTypes,
		SlowMode:      s.limiter.Enabled(),
		MaxLength:     s.maxLength,
	}
}

// Post stores a moderator message. sender identifies the poster for slow
// mode. Blank text returns ErrEmptyMessage and is never stored.
func (s *Service) Post(sender, channel, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyMessage
	}
	if s.maxLength > 0 && utf8.RuneCountInString(text) > s.maxLength {
		return nil, fmt.Errorf("%w: limit is %d characters", models.ErrMessageTooLong, s.maxLength)
	}
	if channel == "" {
		channel = repository.DefaultChannel
	}
	if !s.knownChannel(channel) {
		return nil, fmt.Errorf("%w: unknown channel", models.ErrInvalidInput)
	}

	if !s.limiter.Allow(sender) {
		wait := s.limiter.Retry(sender)
		metrics.IncSlowModeRejected()
		s.logger.Info("chat post rejected by slow mode", "sender", sender, "retry_in", wait)
		return nil, fmt.Errorf("%w: retry in %s", models.ErrSlowMode, wait.Round(time.Second))
	}

	msg := s.chat.Append(models.ChatMessage{
		Platform: models.PlatformInternal,
		Channel:  channel,
		User:     models.ModeratorName,
		Message:  text,
		Type:     models.MessagePlain,
	})

	metrics.IncChatMessages(channel)
	s.publish(live.EventMessage, msg)
	return &msg, nil
}

func (s *Service) knownChannel(id string) bool {
	for _, c := range s.chat.Channels() {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ToggleFlag flips the flag on a message
func (s *Service) ToggleFlag(id string) (*models.ChatMessage, error) {
	msg, err := s.chat.ToggleFlag(id)
	if err != nil {
		return nil, err
	}
	s.publish(live.EventFlag, msg)
	return msg, nil
}

// Apply records a moderation action against user
func (s *Service) Apply(actionType, user, reason string) (*models.ModerationAction, error) {
	typ, err := models.ParseActionType(actionType)
	if err != nil {
		return nil, err
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("%w: user is required", models.ErrInvalidInput)
	}

	action := s.chat.RecordAction(models.ModerationAction{
		Type:   typ,
		User:   user,
		Reason: strings.TrimSpace(reason),
	})

	metrics.IncModerationActions(string(typ))
	s.logger.Info("moderation action applied",
		"type", typ,
		"user", user,
		"removed_messages", action.Removed,
	)
	s.publish(live.EventAction, action)
	return &action, nil
}

func (s *Service) publish(eventType string, data any) {
	if s.events != nil {
		s.events.Broadcast(eventType, data)
	}
}
