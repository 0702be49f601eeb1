package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Common auth errors.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")
)

// AppMetadata is the server-controlled metadata the identity provider embeds
// in access tokens. Users cannot edit it, so the portal role is read from here.
type AppMetadata struct {
	PortalRole model.PortalRole `json:"portal_role"`
}

// Claims are the access token claims issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`

	userID uuid.UUID
}

// UserID is the parsed subject.
func (c *Claims) UserID() uuid.UUID { return c.userID }

// Role is the portal role, defaulting to doer.
func (c *Claims) Role() model.PortalRole {
	if c.AppMetadata.PortalRole == model.RoleSupervisor {
		return model.RoleSupervisor
	}
	return model.RoleDoer
}

// Identity converts the claims into the caller identity used by authz.
func (c *Claims) Identity() *authz.Identity {
	return &authz.Identity{
		UserID:  c.userID,
		Email:   c.Email,
		Role:    c.Role(),
		TokenID: c.ID,
	}
}

// AuthService validates identity provider tokens and tracks logouts.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// ValidateToken parses and validates an access token, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.AuthJWTSecret), nil
	},
		jwt.WithAudience(s.cfg.AuthJWTAudience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims.userID, err = uuid.Parse(claims.Subject)
	if err != nil || claims.userID == uuid.Nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrTokenInvalid)
	}

	return claims, nil
}

// Authenticate validates a token and rejects it if it was logged out.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return claims, nil
	}

	revoked, err := s.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke denylists the token until it would have expired anyway.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, config.CacheKey.RevokedTokenKey(claims.ID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id was logged out.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, config.CacheKey.RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
