package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusAssigned         ProjectStatus = "ASSIGNED"
	ProjectStatusInProgress       ProjectStatus = "IN_PROGRESS"
	ProjectStatusSubmitted        ProjectStatus = "SUBMITTED"
	ProjectStatusRevisionRequired ProjectStatus = "REVISION_REQUIRED"
	ProjectStatusCompleted        ProjectStatus = "COMPLETED"
	ProjectStatusCancelled        ProjectStatus = "CANCELLED"
)

// Project is a unit of outsourced work. DoerID is the assigned worker and
// SupervisorID the reviewer; both may read it.
type Project struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Subject      string        `json:"subject"`
	DoerID       *uuid.UUID    `json:"doer_id,omitempty"`
	SupervisorID *uuid.UUID    `json:"supervisor_id,omitempty"`
	Status       ProjectStatus `json:"status"`
	WordCount    *int          `json:"word_count,omitempty"`
	DoerPayout   float64       `json:"doer_payout"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ProjectFile is a reference file attached by the client to a project.
type ProjectFile struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Deliverable is a version of the work submitted by the assigned doer.
type Deliverable struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	Version     int       `json:"version"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	ContentType string    `json:"content_type"`
	TextContent *string   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Revision is a change request raised by the supervisor.
type Revision struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	RequestedBy uuid.UUID  `json:"requested_by"`
	Feedback    string     `json:"feedback"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProjectDetail is the aggregate the project page renders.
type ProjectDetail struct {
	Project      Project       `json:"project"`
	Files        []ProjectFile `json:"files"`
	Deliverables []Deliverable `json:"deliverables"`
	Revisions    []Revision    `json:"revisions"`
}

// UpdateProjectStatusRequest is the payload for a supervisor status change.
type UpdateProjectStatusRequest struct {
	Status ProjectStatus `json:"status" binding:"required,oneof=ASSIGNED IN_PROGRESS SUBMITTED REVISION_REQUIRED COMPLETED CANCELLED"`
}

// RequestRevisionRequest is the payload for a revision request.
type RequestRevisionRequest struct {
	Feedback string `json:"feedback" binding:"required,min=5,max=5000"`
}
