package authz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeOwners struct {
	profiles map[uuid.UUID]uuid.UUID
	projects map[uuid.UUID]ProjectParticipants
	calls    int
	failWith error
}

func (f *fakeOwners) ProfileOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	f.calls++
	if f.failWith != nil {
		return uuid.Nil, f.failWith
	}
	owner, ok := f.profiles[id]
	if !ok {
		return uuid.Nil, fmt.Errorf("query profile: %w", pgx.ErrNoRows)
	}
	return owner, nil
}

func (f *fakeOwners) ProjectParticipants(_ context.Context, id uuid.UUID) (ProjectParticipants, error) {
	f.calls++
	if f.failWith != nil {
		return ProjectParticipants{}, f.failWith
	}
	p, ok := f.projects[id]
	if !ok {
		return ProjectParticipants{}, pgx.ErrNoRows
	}
	return p, nil
}

func as(userID uuid.UUID, role model.PortalRole) context.Context {
	return WithIdentity(context.Background(), &Identity{UserID: userID, Role: role})
}

func TestRequireProfileOwner(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	profileA := uuid.New()
	owners := &fakeOwners{profiles: map[uuid.UUID]uuid.UUID{profileA: alice}}
	g := NewGuard(owners, nil)

	if err := g.RequireProfileOwner(as(alice, model.RoleDoer), profileA); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}

	var forbidden *ForbiddenError
	if err := g.RequireProfileOwner(as(bob, model.RoleDoer), profileA); !errors.As(err, &forbidden) {
		t.Fatalf("want ForbiddenError, got %v", err)
	}

	var notFound *NotFoundError
	if err := g.RequireProfileOwner(as(bob, model.RoleDoer), uuid.New()); !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestUnauthenticatedFailsBeforeLookup(t *testing.T) {
	owners := &fakeOwners{}
	g := NewGuard(owners, nil)

	var authErr *AuthenticationError
	if err := g.RequireProfileOwner(context.Background(), uuid.New()); !errors.As(err, &authErr) {
		t.Fatalf("want AuthenticationError, got %v", err)
	}
	if err := g.RequireProjectAccess(context.Background(), uuid.New()); !errors.As(err, &authErr) {
		t.Fatalf("want AuthenticationError, got %v", err)
	}
	if owners.calls != 0 {
		t.Errorf("owner store should not be queried, got %d calls", owners.calls)
	}
}

func TestRequireProjectAccess_DualRole(t *testing.T) {
	doer, supervisor, stranger := uuid.New(), uuid.New(), uuid.New()
	project := uuid.New()
	owners := &fakeOwners{projects: map[uuid.UUID]ProjectParticipants{
		project: {DoerID: &doer, SupervisorID: &supervisor},
	}}
	g := NewGuard(owners, nil)

	if err := g.RequireProjectAccess(as(doer, model.RoleDoer), project); err != nil {
		t.Errorf("doer rejected: %v", err)
	}
	if err := g.RequireProjectAccess(as(supervisor, model.RoleSupervisor), project); err != nil {
		t.Errorf("supervisor rejected: %v", err)
	}

	var forbidden *ForbiddenError
	if err := g.RequireProjectAccess(as(stranger, model.RoleDoer), project); !errors.As(err, &forbidden) {
		t.Errorf("want ForbiddenError for stranger, got %v", err)
	}
	if err := g.RequireProjectDoer(as(supervisor, model.RoleSupervisor), project); !errors.As(err, &forbidden) {
		t.Errorf("supervisor must not pass the doer-only check, got %v", err)
	}
	if err := g.RequireProjectSupervisor(as(doer, model.RoleDoer), project); !errors.As(err, &forbidden) {
		t.Errorf("doer must not pass the supervisor-only check, got %v", err)
	}
}

func TestRequireProjectAccess_UnassignedProject(t *testing.T) {
	caller := uuid.New()
	project := uuid.New()
	g := NewGuard(&fakeOwners{projects: map[uuid.UUID]ProjectParticipants{project: {}}}, nil)

	var forbidden *ForbiddenError
	if err := g.RequireProjectAccess(as(caller, model.RoleDoer), project); !errors.As(err, &forbidden) {
		t.Fatalf("want ForbiddenError, got %v", err)
	}
}

func TestRequireParentOwner(t *testing.T) {
	doer := uuid.New()
	project, deliverable := uuid.New(), uuid.New()
	owners := &fakeOwners{projects: map[uuid.UUID]ProjectParticipants{project: {DoerID: &doer}}}
	g := NewGuard(owners, nil)

	parentOf := func(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
		if id == deliverable {
			return project, nil
		}
		return uuid.Nil, pgx.ErrNoRows
	}

	if err := g.RequireParentOwner(as(doer, model.RoleDoer), ResourceDeliverable, deliverable, parentOf, g.RequireProjectAccess); err != nil {
		t.Fatalf("parent owner rejected: %v", err)
	}

	var forbidden *ForbiddenError
	err := g.RequireParentOwner(as(uuid.New(), model.RoleDoer), ResourceDeliverable, deliverable, parentOf, g.RequireProjectAccess)
	if !errors.As(err, &forbidden) {
		t.Fatalf("want ForbiddenError, got %v", err)
	}

	var notFound *NotFoundError
	err = g.RequireParentOwner(as(doer, model.RoleDoer), ResourceDeliverable, uuid.New(), parentOf, g.RequireProjectAccess)
	if !errors.As(err, &notFound) || notFound.Resource != ResourceDeliverable {
		t.Fatalf("want deliverable NotFoundError, got %v", err)
	}
}

func TestStoreFailureIsNotMaskedAsNotFound(t *testing.T) {
	boom := errors.New("connection reset")
	g := NewGuard(&fakeOwners{failWith: boom}, nil)

	err := g.RequireProfileOwner(as(uuid.New(), model.RoleDoer), uuid.New())
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped store error, got %v", err)
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		t.Fatal("store failure must not read as not found")
	}
}

func TestDenialCallback(t *testing.T) {
	var denied []Resource
	g := NewGuard(&fakeOwners{}, func(r Resource, _ error) { denied = append(denied, r) })

	_ = g.RequireProfileOwner(context.Background(), uuid.New())
	_ = g.RequireSelf(as(uuid.New(), model.RoleDoer), ResourceBankDetails, uuid.New())

	if len(denied) != 2 || denied[0] != ResourceProfile || denied[1] != ResourceBankDetails {
		t.Fatalf("unexpected denials %v", denied)
	}
}

func TestGuarded(t *testing.T) {
	user := uuid.New()
	g := NewGuard(&fakeOwners{}, nil)

	ran := false
	_, err := Guarded(as(uuid.New(), model.RoleDoer), g.Self(ResourceActivation, user), func(ctx context.Context) (int, error) {
		ran = true
		return 1, nil
	})
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("want ForbiddenError, got %v", err)
	}
	if ran {
		t.Fatal("guarded function ran after a failed check")
	}

	got, err := Guarded(as(user, model.RoleDoer), g.Self(ResourceActivation, user), func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("want 42, got %d, %v", got, err)
	}
}

func TestIdentityFrom(t *testing.T) {
	var authErr *AuthenticationError
	if _, err := IdentityFrom(WithIdentity(context.Background(), &Identity{})); !errors.As(err, &authErr) {
		t.Fatalf("nil user id should not authenticate, got %v", err)
	}
	id := &Identity{UserID: uuid.New()}
	got, err := IdentityFrom(WithIdentity(context.Background(), id))
	if err != nil || got != id {
		t.Fatalf("want identity back, got %v, %v", got, err)
	}
}
