package dto

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// SignInRequest payload.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the issued token and profile.
type SignInResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

// UpdatePasswordRequest payload.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// CreateProfileRequest payload.
type CreateProfileRequest struct {
	FullName   *string            `json:"full_name"`
	Email      string             `json:"email"`
	Password   string             `json:"password"`
	Role       domain.ProfileRole `json:"role"`
	Department *string            `json:"department"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	FullName   *string            `json:"full_name"`
	Role       domain.ProfileRole `json:"role"`
	Department *string            `json:"department"`
}

// ProfileResponse response.
type ProfileResponse struct {
	ID         string             `json:"id"`
	FullName   *string            `json:"full_name"`
	Email      string             `json:"email"`
	Role       domain.ProfileRole `json:"role"`
	Department *string            `json:"department"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewProfileResponse maps a domain profile. The password hash never leaves
// the service.
func NewProfileResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:         profile.ID,
		FullName:   profile.FullName,
		Email:      profile.Email,
		Role:       profile.Role,
		Department: profile.Department,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}
