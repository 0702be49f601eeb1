package repository

import (
	"context"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PushSubscriptionRepository handles web push subscription data access.
type PushSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPushSubscriptionRepository creates a new PushSubscriptionRepository.
func NewPushSubscriptionRepository(pool *pgxpool.Pool) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{pool: pool}
}

// Upsert registers an endpoint for a user. A browser re-subscribing with the
// same endpoint takes it over with fresh keys.
func (r *PushSubscriptionRepository) Upsert(ctx context.Context, s *model.PushSubscription) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (endpoint) DO UPDATE SET
			user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		 RETURNING id, created_at`,
		s.UserID, s.Endpoint, s.P256dh, s.Auth,
	).Scan(&s.ID, &s.CreatedAt)
}

// ListByUser returns every endpoint registered by a user.
func (r *PushSubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PushSubscription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, endpoint, p256dh, auth, created_at
		 FROM push_subscriptions WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PushSubscription, error) {
		var s model.PushSubscription
		err := row.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.CreatedAt)
		return s, err
	})
}

// DeleteForUser removes one of the user's endpoints.
func (r *PushSubscriptionRepository) DeleteForUser(ctx context.Context, userID uuid.UUID, endpoint string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`, userID, endpoint,
	)
	return err
}

// DeleteByID removes an endpoint the push service reported as gone.
func (r *PushSubscriptionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	return err
}
