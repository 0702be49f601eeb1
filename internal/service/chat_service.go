package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChatService handles project chat rooms and live delivery.
type ChatService struct {
	guard    *authz.Guard
	chats    *repository.ChatRepository
	owners   *repository.OwnerRepository
	notifier *NotificationService
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(
	guard *authz.Guard,
	chats *repository.ChatRepository,
	owners *repository.OwnerRepository,
	notifier *NotificationService,
	rdb *redis.Client,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		guard:    guard,
		chats:    chats,
		owners:   owners,
		notifier: notifier,
		rdb:      rdb,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// History returns up to limit messages before `before`, newest first. Store
// failures yield an empty page.
func (s *ChatService) History(ctx context.Context, projectID uuid.UUID, before time.Time, limit int) ([]model.ChatMessage, error) {
	return authz.Guarded(ctx, s.guard.ProjectAccess(projectID), func(ctx context.Context) ([]model.ChatMessage, error) {
		room, err := s.chats.EnsureRoom(ctx, projectID)
		if err != nil {
			s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to open chat room")
			return []model.ChatMessage{}, nil
		}

		msgs, err := s.chats.ListMessages(ctx, room.ID, before, ClampHistoryLimit(limit))
		if err != nil {
			s.log.Error().Err(err).Str("room_id", room.ID.String()).Msg("Failed to list chat messages")
			return []model.ChatMessage{}, nil
		}
		if msgs == nil {
			msgs = []model.ChatMessage{}
		}
		return msgs, nil
	})
}

// Send stores a message under id, publishes it to live subscribers and
// notifies the other participant. A nil id is replaced with a fresh one.
// Stream clients pass their own id so they can mark it seen before the
// room echo can arrive.
func (s *ChatService) Send(ctx context.Context, projectID, id uuid.UUID, body string) (*model.ChatMessage, error) {
	return authz.Guarded(ctx, s.guard.ProjectAccess(projectID), func(ctx context.Context) (*model.ChatMessage, error) {
		caller, _ := authz.IdentityFrom(ctx)

		room, err := s.chats.EnsureRoom(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("open room: %w", err)
		}

		if id == uuid.Nil {
			id = uuid.New()
		}
		msg := &model.ChatMessage{ID: id, RoomID: room.ID, SenderID: caller.UserID, Body: body}
		if err := s.chats.CreateMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("create message: %w", err)
		}

		raw, _ := json.Marshal(msg)
		if err := s.rdb.Publish(ctx, config.CacheKey.ChatRoomChannel(room.ID.String()), raw).Err(); err != nil {
			// Stored already; clients catch up from history.
			s.log.Warn().Err(err).Str("room_id", room.ID.String()).Msg("Failed to publish chat message")
		}

		s.notifyRecipient(ctx, projectID, caller.UserID, msg)
		return msg, nil
	})
}

// Subscribe opens a live feed of a project's room. The caller must Close the
// returned PubSub.
func (s *ChatService) Subscribe(ctx context.Context, projectID uuid.UUID) (*redis.PubSub, *model.ChatRoom, error) {
	type sub struct {
		ps   *redis.PubSub
		room *model.ChatRoom
	}

	res, err := authz.Guarded(ctx, s.guard.ProjectAccess(projectID), func(ctx context.Context) (sub, error) {
		room, err := s.chats.EnsureRoom(ctx, projectID)
		if err != nil {
			return sub{}, fmt.Errorf("open room: %w", err)
		}

		ps := s.rdb.Subscribe(ctx, config.CacheKey.ChatRoomChannel(room.ID.String()))
		if _, err := ps.Receive(ctx); err != nil {
			ps.Close()
			return sub{}, fmt.Errorf("subscribe: %w", err)
		}
		return sub{ps: ps, room: room}, nil
	})
	return res.ps, res.room, err
}

func (s *ChatService) notifyRecipient(ctx context.Context, projectID, senderID uuid.UUID, msg *model.ChatMessage) {
	p, err := s.owners.ProjectParticipants(ctx, projectID)
	if err != nil {
		s.log.Warn().Err(err).Str("project_id", projectID.String()).Msg("Failed to resolve chat recipient")
		return
	}

	for _, id := range []*uuid.UUID{p.DoerID, p.SupervisorID} {
		if id == nil || *id == senderID {
			continue
		}
		s.notifier.Enqueue(ctx, model.Notification{
			UserID:    *id,
			Kind:      model.NotificationChatMessage,
			Title:     "New message",
			Body:      truncate(msg.Body, 120),
			URL:       "/projects/" + projectID.String() + "/chat",
			ProjectID: &projectID,
		})
	}
}

// ClampHistoryLimit applies the default and maximum page size.
func ClampHistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	return min(limit, maxHistoryLimit)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
