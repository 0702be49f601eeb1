package authz

import (
	"context"

	"github.com/google/uuid"
)

// Guarded runs check and only then fn. A failed check returns its error
// untouched and fn never runs.
func Guarded[T any](ctx context.Context, check Check, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := check(ctx); err != nil {
		var zero T
		return zero, err
	}
	return fn(ctx)
}

// GuardedExec is Guarded for calls with no result.
func GuardedExec(ctx context.Context, check Check, fn func(ctx context.Context) error) error {
	if err := check(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// ProfileOwner binds RequireProfileOwner.
func (g *Guard) ProfileOwner(profileID uuid.UUID) Check {
	return func(ctx context.Context) error { return g.RequireProfileOwner(ctx, profileID) }
}

// ProjectAccess binds RequireProjectAccess.
func (g *Guard) ProjectAccess(projectID uuid.UUID) Check {
	return func(ctx context.Context) error { return g.RequireProjectAccess(ctx, projectID) }
}

// ProjectDoer binds RequireProjectDoer.
func (g *Guard) ProjectDoer(projectID uuid.UUID) Check {
	return func(ctx context.Context) error { return g.RequireProjectDoer(ctx, projectID) }
}

// ProjectSupervisor binds RequireProjectSupervisor.
func (g *Guard) ProjectSupervisor(projectID uuid.UUID) Check {
	return func(ctx context.Context) error { return g.RequireProjectSupervisor(ctx, projectID) }
}

// Self binds RequireSelf.
func (g *Guard) Self(resource Resource, userID uuid.UUID) Check {
	return func(ctx context.Context) error { return g.RequireSelf(ctx, resource, userID) }
}

// Authenticated only requires a session.
func Authenticated() Check {
	return func(ctx context.Context) error {
		_, err := IdentityFrom(ctx)
		return err
	}
}
