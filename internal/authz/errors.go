package authz

import "fmt"

// AuthenticationError means the request carries no valid session.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication required"
	}
	return "authentication required: " + e.Reason
}

// ForbiddenError means the caller is authenticated but may not touch the resource.
type ForbiddenError struct {
	Resource Resource
	ID       string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %s denied", e.Resource, e.ID)
}

// NotFoundError means the target resource does not exist.
type NotFoundError struct {
	Resource Resource
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
