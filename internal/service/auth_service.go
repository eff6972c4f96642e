package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hpdsk/helpdesk-service/internal/auth"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/persistence"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

const minPasswordLength = 6

// AuthService signs operators in and out and manages their profiles.
type AuthService struct {
	profiles   repository.ProfileRepository
	tokens     *auth.TokenManager
	revoker    persistence.TokenRevoker
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(profiles repository.ProfileRepository, tokens *auth.TokenManager, revoker persistence.TokenRevoker, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{
		profiles:   profiles,
		tokens:     tokens,
		revoker:    revoker,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SignInResult carries the issued token alongside the profile.
type SignInResult struct {
	Profile   *domain.Profile
	Token     string
	ExpiresAt time.Time
}

// SignIn verifies credentials and issues a JWT. Unknown email and wrong
// password produce the same error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(profile.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(profile)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("operator signed in", zap.String("profile_id", profile.ID))
	return &SignInResult{Profile: profile, Token: token, ExpiresAt: expiresAt}, nil
}

// SignOut revokes the presented token for its remaining lifetime.
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.NewUnauthorized("no active session")
	}
	until := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, until); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UpdatePassword re-hashes and stores a new password for the profile.
func (s *AuthService) UpdatePassword(ctx context.Context, profileID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.profiles.UpdatePasswordHash(ctx, profileID, hash); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("password updated", zap.String("profile_id", profileID))
	return nil
}

// CreateProfile registers a new operator. Administrator-only at the route
// layer.
func (s *AuthService) CreateProfile(ctx context.Context, profile *domain.Profile, password string) (*domain.Profile, error) {
	profile.Email = strings.TrimSpace(strings.ToLower(profile.Email))
	details := map[string]any{}
	if profile.Email == "" {
		details["email"] = "required"
	}
	if !validProfileRole(profile.Role) {
		details["role"] = "invalid"
	}
	if len(password) < minPasswordLength {
		details["password"] = "too short"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid profile payload", details)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	profile.PasswordHash = hash
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// GetProfile fetches a profile by id.
func (s *AuthService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UpdateProfile persists mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if strings.TrimSpace(profile.ID) == "" {
		return nil, apperrors.NewValidationError("profile id required", nil)
	}
	if !validProfileRole(profile.Role) {
		return nil, apperrors.NewValidationError("invalid role", nil)
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

func validProfileRole(role domain.ProfileRole) bool {
	switch role {
	case domain.RoleAdministrator, domain.RoleSupervisor, domain.RoleTechnician:
		return true
	}
	return false
}
