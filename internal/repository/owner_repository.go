package repository

import (
	"context"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerRepository answers ownership lookups for the authorization guard.
// Every call reads the current row; nothing is cached.
type OwnerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepository.
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{pool: pool}
}

// ProfileOwner returns the user a profile belongs to.
func (r *OwnerRepository) ProfileOwner(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT user_id FROM profiles WHERE id = $1`, profileID,
	).Scan(&owner)
	return owner, err
}

// ProjectParticipants returns the assigned doer and supervisor of a project.
func (r *OwnerRepository) ProjectParticipants(ctx context.Context, projectID uuid.UUID) (authz.ProjectParticipants, error) {
	var p authz.ProjectParticipants
	err := r.pool.QueryRow(ctx,
		`SELECT doer_id, supervisor_id FROM projects WHERE id = $1`, projectID,
	).Scan(&p.DoerID, &p.SupervisorID)
	return p, err
}

// DeliverableProject resolves a deliverable to its project.
func (r *OwnerRepository) DeliverableProject(ctx context.Context, deliverableID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT project_id FROM deliverables WHERE id = $1`, deliverableID,
	).Scan(&projectID)
	return projectID, err
}

// ChatRoomProject resolves a chat room to its project.
func (r *OwnerRepository) ChatRoomProject(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT project_id FROM chat_rooms WHERE id = $1`, roomID,
	).Scan(&projectID)
	return projectID, err
}
