package service

import (
	"testing"

	"github.com/doerhub/doerhub-backend/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.ProjectStatus
		want     bool
	}{
		{model.ProjectStatusAssigned, model.ProjectStatusInProgress, true},
		{model.ProjectStatusSubmitted, model.ProjectStatusRevisionRequired, true},
		{model.ProjectStatusSubmitted, model.ProjectStatusCompleted, true},
		{model.ProjectStatusRevisionRequired, model.ProjectStatusSubmitted, true},
		{model.ProjectStatusAssigned, model.ProjectStatusSubmitted, true},
		{model.ProjectStatusAssigned, model.ProjectStatusCompleted, false},
		{model.ProjectStatusInProgress, model.ProjectStatusRevisionRequired, false},
		{model.ProjectStatusCompleted, model.ProjectStatusInProgress, false},
		{model.ProjectStatusCancelled, model.ProjectStatusAssigned, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAcceptsDeliverable(t *testing.T) {
	tests := []struct {
		status model.ProjectStatus
		want   bool
	}{
		{model.ProjectStatusAssigned, true},
		{model.ProjectStatusInProgress, true},
		{model.ProjectStatusSubmitted, true},
		{model.ProjectStatusRevisionRequired, true},
		{model.ProjectStatusCompleted, false},
		{model.ProjectStatusCancelled, false},
	}
	for _, tt := range tests {
		if got := AcceptsDeliverable(tt.status); got != tt.want {
			t.Errorf("AcceptsDeliverable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
