package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotificationService registers push endpoints and queues notifications for
// the push worker.
type NotificationService struct {
	guard *authz.Guard
	subs  *repository.PushSubscriptionRepository
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(guard *authz.Guard, subs *repository.PushSubscriptionRepository, rdb *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		guard: guard,
		subs:  subs,
		rdb:   rdb,
		log:   log.With().Str("component", "notification").Logger(),
	}
}

// Subscribe registers a browser push endpoint for userID.
func (s *NotificationService) Subscribe(ctx context.Context, userID uuid.UUID, req *model.PushSubscriptionRequest) (*model.PushSubscription, error) {
	return authz.Guarded(ctx, s.guard.Self(authz.ResourceProfile, userID), func(ctx context.Context) (*model.PushSubscription, error) {
		sub := &model.PushSubscription{
			UserID:   userID,
			Endpoint: req.Endpoint,
			P256dh:   req.Keys.P256dh,
			Auth:     req.Keys.Auth,
		}
		if err := s.subs.Upsert(ctx, sub); err != nil {
			return nil, fmt.Errorf("save subscription: %w", err)
		}
		return sub, nil
	})
}

// Unsubscribe removes one of userID's endpoints.
func (s *NotificationService) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error {
	return authz.GuardedExec(ctx, s.guard.Self(authz.ResourceProfile, userID), func(ctx context.Context) error {
		if err := s.subs.DeleteForUser(ctx, userID, endpoint); err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		return nil
	})
}

// Enqueue hands a notification to the push worker. Failures are logged only;
// a lost push never fails the action that triggered it.
func (s *NotificationService) Enqueue(ctx context.Context, n model.Notification) {
	if n.UserID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode notification")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PushNotificationsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("kind", string(n.Kind)).Msg("Failed to queue notification")
	}
}
