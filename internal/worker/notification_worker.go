package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	PushPollTimeout = 1 * time.Second
	PushTTLSeconds  = 60 * 60 * 24
	pushSendTimeout = 10 * time.Second

	// Backoff bounds after a failed queue read.
	minPollBackoff = 500 * time.Millisecond
	maxPollBackoff = 30 * time.Second
)

// SubscriptionStore lists and prunes push endpoints.
type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PushSubscription, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// PushSender delivers one encrypted push message. webpush.SendNotificationWithContext
// satisfies it.
type PushSender func(ctx context.Context, message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// NotificationWorker drains the notification queue and delivers web pushes.
type NotificationWorker struct {
	rdb  *redis.Client
	subs SubscriptionStore
	send PushSender
	opts webpush.Options
	log  zerolog.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewNotificationWorker(cfg *config.Config, rdb *redis.Client, subs SubscriptionStore, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:  rdb,
		subs: subs,
		send: webpush.SendNotificationWithContext,
		opts: webpush.Options{
			Subscriber:      cfg.VAPIDSubject,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             PushTTLSeconds,
			Urgency:         webpush.UrgencyNormal,
		},
		log:        log.With().Str("component", "notification_worker").Logger(),
		minBackoff: minPollBackoff,
		maxBackoff: maxPollBackoff,
	}
}

// pushPayload is what the service worker in the browser receives.
type pushPayload struct {
	Kind      model.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	URL       string                 `json:"url,omitempty"`
	ProjectID *uuid.UUID             `json:"project_id,omitempty"`
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotificationWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, PushPollTimeout, config.WorkerKey.PushNotificationsQueue).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				backoff = nextBackoff(backoff, w.minBackoff, w.maxBackoff)
				w.log.Error().Err(err).Dur("retry_in", backoff).Msg("BLPop error")
				if !sleepCtx(ctx, backoff) {
					w.log.Info().Msg("NotificationWorker stopped")
					return
				}
				continue
			}
			backoff = 0

			if len(item) < 2 {
				continue
			}

			var n model.Notification
			if err := json.Unmarshal([]byte(item[1]), &n); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.Deliver(ctx, &n)
		}
	}
}

// nextBackoff doubles prev within [lo, hi].
func nextBackoff(prev, lo, hi time.Duration) time.Duration {
	if prev < lo {
		return lo
	}
	return min(prev*2, hi)
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ----------------------------------------------------------------
// Delivery
// ----------------------------------------------------------------

// Deliver sends n to every endpoint of its recipient. Endpoints the push
// service reports as gone are deleted.
func (w *NotificationWorker) Deliver(ctx context.Context, n *model.Notification) {
	subs, err := w.subs.ListByUser(ctx, n.UserID)
	if err != nil {
		w.log.Error().Err(err).Str("user_id", n.UserID.String()).Msg("Failed to list push subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		URL:       n.URL,
		ProjectID: n.ProjectID,
	})
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to encode push payload")
		return
	}

	for i := range subs {
		w.sendOne(ctx, &subs[i], payload)
	}
}

func (w *NotificationWorker) sendOne(ctx context.Context, sub *model.PushSubscription, payload []byte) {
	sendCtx, cancel := context.WithTimeout(ctx, pushSendTimeout)
	defer cancel()

	opts := w.opts
	resp, err := w.send(sendCtx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{Auth: sub.Auth, P256dh: sub.P256dh},
	}, &opts)
	if err != nil {
		metrics.PushDeliveries.WithLabelValues("error").Inc()
		if !errors.Is(err, context.Canceled) {
			w.log.Warn().Err(err).Str("subscription_id", sub.ID.String()).Msg("Push send failed")
		}
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		metrics.PushDeliveries.WithLabelValues("expired").Inc()
		if err := w.subs.DeleteByID(ctx, sub.ID); err != nil {
			w.log.Error().Err(err).Str("subscription_id", sub.ID.String()).Msg("Failed to delete expired subscription")
		}
	case resp.StatusCode >= 300:
		metrics.PushDeliveries.WithLabelValues("rejected").Inc()
		w.log.Warn().Int("status", resp.StatusCode).Str("subscription_id", sub.ID.String()).Msg("Push service rejected message")
	default:
		metrics.PushDeliveries.WithLabelValues("sent").Inc()
	}
}
