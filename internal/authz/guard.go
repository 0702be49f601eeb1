// Package authz re-verifies, on every data-access call, that the caller owns
// (or participates in) the record being touched.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Resource names a guarded record type.
type Resource string

const (
	ResourceProfile     Resource = "profile"
	ResourceProject     Resource = "project"
	ResourceActivation  Resource = "activation"
	ResourceBankDetails Resource = "bank_details"
	ResourceDeliverable Resource = "deliverable"
	ResourceChatRoom    Resource = "chat_room"
)

// ProjectParticipants are the identities allowed on a project.
type ProjectParticipants struct {
	DoerID       *uuid.UUID
	SupervisorID *uuid.UUID
}

// OwnerStore loads recorded owners. Lookups return pgx.ErrNoRows (possibly
// wrapped) when the record does not exist.
type OwnerStore interface {
	ProfileOwner(ctx context.Context, profileID uuid.UUID) (uuid.UUID, error)
	ProjectParticipants(ctx context.Context, projectID uuid.UUID) (ProjectParticipants, error)
}

// ParentLookup resolves a child record to its parent id via foreign key.
type ParentLookup func(ctx context.Context, childID uuid.UUID) (uuid.UUID, error)

// Check is a guard bound to its arguments, run before a data-access call.
type Check func(ctx context.Context) error

// Denial is notified of every rejected check; used for metrics.
type Denial func(resource Resource, err error)

// Guard runs ownership checks. It keeps no state between calls.
type Guard struct {
	owners OwnerStore
	onDeny Denial
}

// NewGuard creates a Guard. onDeny may be nil.
func NewGuard(owners OwnerStore, onDeny Denial) *Guard {
	return &Guard{owners: owners, onDeny: onDeny}
}

// RequireProfileOwner allows only the user the profile belongs to.
func (g *Guard) RequireProfileOwner(ctx context.Context, profileID uuid.UUID) error {
	caller, err := IdentityFrom(ctx)
	if err != nil {
		return g.deny(ResourceProfile, err)
	}

	owner, err := g.owners.ProfileOwner(ctx, profileID)
	if err != nil {
		return g.deny(ResourceProfile, lookupErr(ResourceProfile, profileID, err))
	}
	if owner != caller.UserID {
		return g.deny(ResourceProfile, &ForbiddenError{Resource: ResourceProfile, ID: profileID.String()})
	}
	return nil
}

// RequireProjectAccess allows the assigned doer or the supervisor.
func (g *Guard) RequireProjectAccess(ctx context.Context, projectID uuid.UUID) error {
	return g.requireProject(ctx, projectID, true, true)
}

// RequireProjectDoer allows only the assigned doer.
func (g *Guard) RequireProjectDoer(ctx context.Context, projectID uuid.UUID) error {
	return g.requireProject(ctx, projectID, true, false)
}

// RequireProjectSupervisor allows only the supervisor.
func (g *Guard) RequireProjectSupervisor(ctx context.Context, projectID uuid.UUID) error {
	return g.requireProject(ctx, projectID, false, true)
}

// RequireParentOwner resolves childID to its parent and runs parentCheck on
// the parent, so nested writes inherit the parent's ownership.
func (g *Guard) RequireParentOwner(
	ctx context.Context,
	child Resource,
	childID uuid.UUID,
	parentOf ParentLookup,
	parentCheck func(ctx context.Context, parentID uuid.UUID) error,
) error {
	if _, err := IdentityFrom(ctx); err != nil {
		return g.deny(child, err)
	}

	parentID, err := parentOf(ctx, childID)
	if err != nil {
		return g.deny(child, lookupErr(child, childID, err))
	}
	return parentCheck(ctx, parentID)
}

// RequireSelf allows only userID, for records keyed by the user id.
func (g *Guard) RequireSelf(ctx context.Context, resource Resource, userID uuid.UUID) error {
	caller, err := IdentityFrom(ctx)
	if err != nil {
		return g.deny(resource, err)
	}
	if caller.UserID != userID {
		return g.deny(resource, &ForbiddenError{Resource: resource, ID: userID.String()})
	}
	return nil
}

func (g *Guard) requireProject(ctx context.Context, projectID uuid.UUID, allowDoer, allowSupervisor bool) error {
	caller, err := IdentityFrom(ctx)
	if err != nil {
		return g.deny(ResourceProject, err)
	}

	p, err := g.owners.ProjectParticipants(ctx, projectID)
	if err != nil {
		return g.deny(ResourceProject, lookupErr(ResourceProject, projectID, err))
	}

	if allowDoer && p.DoerID != nil && *p.DoerID == caller.UserID {
		return nil
	}
	if allowSupervisor && p.SupervisorID != nil && *p.SupervisorID == caller.UserID {
		return nil
	}
	return g.deny(ResourceProject, &ForbiddenError{Resource: ResourceProject, ID: projectID.String()})
}

func (g *Guard) deny(resource Resource, err error) error {
	if g.onDeny != nil {
		g.onDeny(resource, err)
	}
	return err
}

func lookupErr(resource Resource, id uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Resource: resource, ID: id.String()}
	}
	return fmt.Errorf("load %s owner: %w", resource, err)
}
