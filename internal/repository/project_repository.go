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

var ErrDeliverableVersionConflict = errors.New("deliverable version already exists")

const projectColumns = `id, title, description, subject, doer_id, supervisor_id, status, word_count,
	doer_payout, deadline, created_at, updated_at`

// ProjectRepository handles project, file, deliverable and revision data access.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Subject, &p.DoerID, &p.SupervisorID, &p.Status,
		&p.WordCount, &p.DoerPayout, &p.Deadline, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a project.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return scanProject(r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	))
}

// ListForDoer returns the projects assigned to a doer, most recently updated first.
func (r *ProjectRepository) ListForDoer(ctx context.Context, doerID uuid.UUID) ([]model.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE doer_id = $1 ORDER BY updated_at DESC`, doerID)
}

// ListForSupervisor returns the projects a supervisor reviews.
func (r *ProjectRepository) ListForSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]model.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE supervisor_id = $1 ORDER BY updated_at DESC`, supervisorID)
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateStatus sets a project's status.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProjectStatus) (*model.Project, error) {
	return scanProject(r.pool.QueryRow(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+projectColumns,
		status, id,
	))
}

// ListFiles returns the reference files of a project.
func (r *ProjectRepository) ListFiles(ctx context.Context, projectID uuid.UUID) ([]model.ProjectFile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, file_name, file_url, uploaded_at
		 FROM project_files WHERE project_id = $1 ORDER BY uploaded_at`, projectID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ProjectFile, error) {
		var f model.ProjectFile
		err := row.Scan(&f.ID, &f.ProjectID, &f.FileName, &f.FileURL, &f.UploadedAt)
		return f, err
	})
}

const deliverableColumns = `id, project_id, uploaded_by, version, file_name, file_url, content_type, text_content, created_at`

func scanDeliverable(row pgx.Row) (*model.Deliverable, error) {
	d := &model.Deliverable{}
	err := row.Scan(&d.ID, &d.ProjectID, &d.UploadedBy, &d.Version, &d.FileName, &d.FileURL, &d.ContentType,
		&d.TextContent, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDeliverables returns a project's deliverables, newest version first.
func (r *ProjectRepository) ListDeliverables(ctx context.Context, projectID uuid.UUID) ([]model.Deliverable, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deliverableColumns+` FROM deliverables WHERE project_id = $1 ORDER BY version DESC`, projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetDeliverable retrieves one deliverable.
func (r *ProjectRepository) GetDeliverable(ctx context.Context, id uuid.UUID) (*model.Deliverable, error) {
	return scanDeliverable(r.pool.QueryRow(ctx,
		`SELECT `+deliverableColumns+` FROM deliverables WHERE id = $1`, id,
	))
}

// CreateDeliverable stores the next version of a project's deliverable and
// moves the project to SUBMITTED.
func (r *ProjectRepository) CreateDeliverable(ctx context.Context, d *model.Deliverable) error {
	err := r.pool.QueryRow(ctx,
		`WITH d AS (
			INSERT INTO deliverables (project_id, uploaded_by, version, file_name, file_url, content_type, text_content)
			SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4, $5, $6
			FROM deliverables WHERE project_id = $1
			RETURNING id, version, created_at
		), p AS (
			UPDATE projects SET status = 'SUBMITTED', updated_at = NOW() WHERE id = $1
		)
		SELECT id, version, created_at FROM d`,
		d.ProjectID, d.UploadedBy, d.FileName, d.FileURL, d.ContentType, d.TextContent,
	).Scan(&d.ID, &d.Version, &d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDeliverableVersionConflict
		}
		return err
	}
	return nil
}

// ListRevisions returns a project's revision requests, newest first.
func (r *ProjectRepository) ListRevisions(ctx context.Context, projectID uuid.UUID) ([]model.Revision, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, requested_by, feedback, resolved_at, created_at
		 FROM revisions WHERE project_id = $1 ORDER BY created_at DESC`, projectID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Revision, error) {
		var rv model.Revision
		err := row.Scan(&rv.ID, &rv.ProjectID, &rv.RequestedBy, &rv.Feedback, &rv.ResolvedAt, &rv.CreatedAt)
		return rv, err
	})
}

// CreateRevision records a revision request and moves the project to
// REVISION_REQUIRED.
func (r *ProjectRepository) CreateRevision(ctx context.Context, rv *model.Revision) error {
	return r.pool.QueryRow(ctx,
		`WITH rv AS (
			INSERT INTO revisions (project_id, requested_by, feedback)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		), p AS (
			UPDATE projects SET status = 'REVISION_REQUIRED', updated_at = NOW() WHERE id = $1
		)
		SELECT id, created_at FROM rv`,
		rv.ProjectID, rv.RequestedBy, rv.Feedback,
	).Scan(&rv.ID, &rv.CreatedAt)
}
