package model

import (
	"time"

	"github.com/google/uuid"
)

// PortalRole distinguishes the two portals a user can sign in to.
type PortalRole string

const (
	RoleDoer       PortalRole = "doer"
	RoleSupervisor PortalRole = "supervisor"
)

// Profile is the doer/supervisor profile row. UserID is the identity
// provider's subject and owns the row.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      PortalRole `json:"role"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Skills    []string   `json:"skills"`
	Bio       *string    `json:"bio,omitempty"`
	CVURL     *string    `json:"cv_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UpdateProfileRequest is the payload for editing one's own profile.
type UpdateProfileRequest struct {
	FullName string   `json:"full_name" binding:"required,min=2,max=120"`
	Phone    *string  `json:"phone" binding:"omitempty,e164"`
	Skills   []string `json:"skills" binding:"omitempty,max=30,dive,min=1,max=60"`
	Bio      *string  `json:"bio" binding:"omitempty,max=2000"`
}
