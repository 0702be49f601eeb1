package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ProfileService handles the caller's own profile.
type ProfileService struct {
	guard    *authz.Guard
	profiles *repository.ProfileRepository
	media    *MediaService
	log      zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(guard *authz.Guard, profiles *repository.ProfileRepository, media *MediaService, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		guard:    guard,
		profiles: profiles,
		media:    media,
		log:      log.With().Str("component", "profile").Logger(),
	}
}

// GetOrProvision returns the caller's profile, creating it together with an
// empty activation record on first sign-in.
func (s *ProfileService) GetOrProvision(ctx context.Context) (*model.Profile, error) {
	return authz.Guarded(ctx, authz.Authenticated(), func(ctx context.Context) (*model.Profile, error) {
		caller, _ := authz.IdentityFrom(ctx)

		p, err := s.profiles.GetByUserID(ctx, caller.UserID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get profile: %w", err)
		}

		p = &model.Profile{
			UserID:   caller.UserID,
			Role:     caller.Role,
			FullName: caller.Email,
			Email:    caller.Email,
		}
		err = s.profiles.Provision(ctx, p)
		if errors.Is(err, repository.ErrProfileExists) {
			// Lost a race with a parallel first request.
			return s.profiles.GetByUserID(ctx, caller.UserID)
		}
		if err != nil {
			return nil, fmt.Errorf("provision profile: %w", err)
		}

		s.log.Info().Str("user_id", caller.UserID.String()).Str("role", string(caller.Role)).Msg("Profile provisioned")
		return p, nil
	})
}

// Update edits a profile owned by the caller.
func (s *ProfileService) Update(ctx context.Context, profileID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	return authz.Guarded(ctx, s.guard.ProfileOwner(profileID), func(ctx context.Context) (*model.Profile, error) {
		p, err := s.profiles.Update(ctx, profileID, req)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &authz.NotFoundError{Resource: authz.ResourceProfile, ID: profileID.String()}
		}
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		return p, nil
	})
}

// UploadCV stores a CV and links it to a profile owned by the caller.
func (s *ProfileService) UploadCV(ctx context.Context, profileID uuid.UUID, file io.Reader, header *multipart.FileHeader) (string, error) {
	return authz.Guarded(ctx, s.guard.ProfileOwner(profileID), func(ctx context.Context) (string, error) {
		stored, err := s.media.SaveUpload(ctx, UploadCV, profileID, file, header)
		if err != nil {
			return "", err
		}

		if err := s.profiles.SetCVURL(ctx, profileID, stored.URL); err != nil {
			if rmErr := s.media.Remove(ctx, stored.Key); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("key", stored.Key).Msg("Failed to remove orphaned CV")
			}
			if errors.Is(err, pgx.ErrNoRows) {
				return "", &authz.NotFoundError{Resource: authz.ResourceProfile, ID: profileID.String()}
			}
			return "", fmt.Errorf("set cv url: %w", err)
		}
		return stored.URL, nil
	})
}
