package repository

import (
	"context"
	"errors"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileExists = errors.New("profile for this user already exists")

const profileColumns = `id, user_id, role, full_name, email, phone, skills, bio, cv_url, created_at, updated_at`

// ProfileRepository handles profile data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(&p.ID, &p.UserID, &p.Role, &p.FullName, &p.Email, &p.Phone, &p.Skills, &p.Bio, &p.CVURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByUserID retrieves the profile owned by a user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID,
	))
}

// Provision creates the profile and its all-false activation record in a
// single statement. Calling it for an existing user returns ErrProfileExists
// and changes nothing.
func (r *ProfileRepository) Provision(ctx context.Context, p *model.Profile) error {
	err := r.pool.QueryRow(ctx,
		`WITH p AS (
			INSERT INTO profiles (user_id, role, full_name, email, skills)
			VALUES ($1, $2, $3, $4, '{}')
			RETURNING id, user_id, skills, created_at, updated_at
		), a AS (
			INSERT INTO activation_records (user_id) SELECT user_id FROM p
		)
		SELECT id, skills, created_at, updated_at FROM p`,
		p.UserID, p.Role, p.FullName, p.Email,
	).Scan(&p.ID, &p.Skills, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProfileExists
		}
		return err
	}
	return nil
}

// Update modifies the editable fields of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profileID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	return scanProfile(r.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET full_name = $1, phone = $2, skills = $3, bio = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+profileColumns,
		req.FullName, req.Phone, skills, req.Bio, profileID,
	))
}

// SetCVURL stores the public URL of an uploaded CV.
func (r *ProfileRepository) SetCVURL(ctx context.Context, profileID uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles SET cv_url = $1, updated_at = NOW() WHERE id = $2`, url, profileID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
