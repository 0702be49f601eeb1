package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"slices"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidStatusChange = errors.New("project cannot move to that status")

// statusTransitions lists the allowed status moves. Moves to SUBMITTED also
// happen implicitly when the doer uploads a deliverable.
var statusTransitions = map[model.ProjectStatus][]model.ProjectStatus{
	model.ProjectStatusAssigned:         {model.ProjectStatusInProgress, model.ProjectStatusSubmitted, model.ProjectStatusCancelled},
	model.ProjectStatusInProgress:       {model.ProjectStatusSubmitted, model.ProjectStatusCancelled},
	model.ProjectStatusSubmitted:        {model.ProjectStatusRevisionRequired, model.ProjectStatusCompleted, model.ProjectStatusCancelled},
	model.ProjectStatusRevisionRequired: {model.ProjectStatusInProgress, model.ProjectStatusSubmitted, model.ProjectStatusCancelled},
}

// CanTransition reports whether a project may move from one status to another.
func CanTransition(from, to model.ProjectStatus) bool {
	return slices.Contains(statusTransitions[from], to)
}

// AcceptsDeliverable reports whether a project in status may take a new
// deliverable version. A project under review takes a replacement version.
func AcceptsDeliverable(status model.ProjectStatus) bool {
	return status == model.ProjectStatusSubmitted || CanTransition(status, model.ProjectStatusSubmitted)
}

// ProjectService handles project pages, deliverables and revisions.
type ProjectService struct {
	guard    *authz.Guard
	projects *repository.ProjectRepository
	owners   *repository.OwnerRepository
	media    *MediaService
	notifier *NotificationService
	log      zerolog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	guard *authz.Guard,
	projects *repository.ProjectRepository,
	owners *repository.OwnerRepository,
	media *MediaService,
	notifier *NotificationService,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		guard:    guard,
		projects: projects,
		owners:   owners,
		media:    media,
		notifier: notifier,
		log:      log.With().Str("component", "project").Logger(),
	}
}

// ListMine returns the caller's projects for their portal. Store failures
// yield an empty list.
func (s *ProjectService) ListMine(ctx context.Context) ([]model.Project, error) {
	return authz.Guarded(ctx, authz.Authenticated(), func(ctx context.Context) ([]model.Project, error) {
		caller, _ := authz.IdentityFrom(ctx)

		var (
			projects []model.Project
			err      error
		)
		if caller.Role == model.RoleSupervisor {
			projects, err = s.projects.ListForSupervisor(ctx, caller.UserID)
		} else {
			projects, err = s.projects.ListForDoer(ctx, caller.UserID)
		}
		if err != nil {
			s.log.Error().Err(err).Str("user_id", caller.UserID.String()).Msg("Failed to list projects")
			return []model.Project{}, nil
		}
		if projects == nil {
			projects = []model.Project{}
		}
		return projects, nil
	})
}

// Detail loads a project with its files, deliverables and revisions. The
// four reads run concurrently; a failed child list degrades to empty.
func (s *ProjectService) Detail(ctx context.Context, projectID uuid.UUID) (*model.ProjectDetail, error) {
	return authz.Guarded(ctx, s.guard.ProjectAccess(projectID), func(ctx context.Context) (*model.ProjectDetail, error) {
		detail := &model.ProjectDetail{
			Files:        []model.ProjectFile{},
			Deliverables: []model.Deliverable{},
			Revisions:    []model.Revision{},
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := s.projects.GetByID(gctx, projectID)
			if errors.Is(err, pgx.ErrNoRows) {
				return &authz.NotFoundError{Resource: authz.ResourceProject, ID: projectID.String()}
			}
			if err != nil {
				return fmt.Errorf("get project: %w", err)
			}
			detail.Project = *p
			return nil
		})
		g.Go(func() error {
			files, err := s.projects.ListFiles(gctx, projectID)
			if err != nil {
				s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list project files")
				return nil
			}
			if files != nil {
				detail.Files = files
			}
			return nil
		})
		g.Go(func() error {
			deliverables, err := s.projects.ListDeliverables(gctx, projectID)
			if err != nil {
				s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list deliverables")
				return nil
			}
			if deliverables != nil {
				detail.Deliverables = deliverables
			}
			return nil
		})
		g.Go(func() error {
			revisions, err := s.projects.ListRevisions(gctx, projectID)
			if err != nil {
				s.log.Error().Err(err).Str("project_id", projectID.String()).Msg("Failed to list revisions")
				return nil
			}
			if revisions != nil {
				detail.Revisions = revisions
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return detail, nil
	})
}

// UpdateStatus moves a project along its lifecycle. Supervisor only.
func (s *ProjectService) UpdateStatus(ctx context.Context, projectID uuid.UUID, to model.ProjectStatus) (*model.Project, error) {
	return authz.Guarded(ctx, s.guard.ProjectSupervisor(projectID), func(ctx context.Context) (*model.Project, error) {
		current, err := s.projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if !CanTransition(current.Status, to) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, current.Status, to)
		}

		p, err := s.projects.UpdateStatus(ctx, projectID, to)
		if err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
		return p, nil
	})
}

// SubmitDeliverable uploads the next deliverable version. Assigned doer only.
func (s *ProjectService) SubmitDeliverable(ctx context.Context, projectID uuid.UUID, file io.Reader, header *multipart.FileHeader) (*model.Deliverable, error) {
	return authz.Guarded(ctx, s.guard.ProjectDoer(projectID), func(ctx context.Context) (*model.Deliverable, error) {
		caller, _ := authz.IdentityFrom(ctx)

		project, err := s.projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if !AcceptsDeliverable(project.Status) {
			return nil, fmt.Errorf("%w: project is %s", ErrInvalidStatusChange, project.Status)
		}

		stored, err := s.media.SaveUpload(ctx, UploadDeliverable, projectID, file, header)
		if err != nil {
			return nil, err
		}

		d := &model.Deliverable{
			ProjectID:   projectID,
			UploadedBy:  caller.UserID,
			FileName:    stored.FileName,
			FileURL:     stored.URL,
			ContentType: stored.ContentType,
			TextContent: stored.Text,
		}
		if err := s.projects.CreateDeliverable(ctx, d); err != nil {
			if rmErr := s.media.Remove(ctx, stored.Key); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("key", stored.Key).Msg("Failed to remove orphaned deliverable")
			}
			return nil, fmt.Errorf("create deliverable: %w", err)
		}

		if project.SupervisorID != nil {
			s.notifier.Enqueue(ctx, model.Notification{
				UserID:    *project.SupervisorID,
				Kind:      model.NotificationDeliverableSubmitted,
				Title:     "New deliverable",
				Body:      fmt.Sprintf("%s: version %d submitted", project.Title, d.Version),
				URL:       "/projects/" + projectID.String(),
				ProjectID: &projectID,
			})
		}
		return d, nil
	})
}

// RequestRevision records supervisor feedback. Supervisor only.
func (s *ProjectService) RequestRevision(ctx context.Context, projectID uuid.UUID, feedback string) (*model.Revision, error) {
	return authz.Guarded(ctx, s.guard.ProjectSupervisor(projectID), func(ctx context.Context) (*model.Revision, error) {
		caller, _ := authz.IdentityFrom(ctx)

		project, err := s.projects.GetByID(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("get project: %w", err)
		}
		if !CanTransition(project.Status, model.ProjectStatusRevisionRequired) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, project.Status, model.ProjectStatusRevisionRequired)
		}

		rv := &model.Revision{ProjectID: projectID, RequestedBy: caller.UserID, Feedback: feedback}
		if err := s.projects.CreateRevision(ctx, rv); err != nil {
			return nil, fmt.Errorf("create revision: %w", err)
		}

		if project.DoerID != nil {
			s.notifier.Enqueue(ctx, model.Notification{
				UserID:    *project.DoerID,
				Kind:      model.NotificationRevisionRequested,
				Title:     "Revision requested",
				Body:      project.Title,
				URL:       "/projects/" + projectID.String(),
				ProjectID: &projectID,
			})
		}
		return rv, nil
	})
}

// Deliverable loads one deliverable after checking access to its project.
func (s *ProjectService) Deliverable(ctx context.Context, deliverableID uuid.UUID) (*model.Deliverable, error) {
	check := func(ctx context.Context) error {
		return s.guard.RequireParentOwner(ctx, authz.ResourceDeliverable, deliverableID,
			s.owners.DeliverableProject, s.guard.RequireProjectAccess)
	}
	return authz.Guarded(ctx, check, func(ctx context.Context) (*model.Deliverable, error) {
		d, err := s.projects.GetDeliverable(ctx, deliverableID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &authz.NotFoundError{Resource: authz.ResourceDeliverable, ID: deliverableID.String()}
		}
		return d, err
	})
}
