package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/api/dto"
	"github.com/hpdsk/helpdesk-service/internal/auth"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/service"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// AuthHandler manages sign-in, sign-out and profile endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// SignIn POST /auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SignInResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Profile:   dto.NewProfileResponse(result.Profile),
	}})
}

// SignOut POST /auth/sign-out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.SignOut(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": dto.SuccessFeedback("Sessão encerrada.")})
}

// UpdatePassword POST /auth/password.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.UpdatePassword(c.UserContext(), principal.Profile.ID, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": dto.SuccessFeedback("Senha atualizada.")})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(principal.Profile)})
}

// UpdateProfile PUT /auth/me.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile := &domain.Profile{
		ID:         principal.Profile.ID,
		FullName:   req.FullName,
		Role:       principal.Profile.Role,
		Department: req.Department,
	}
	// Only administrators may change roles.
	if req.Role != "" && principal.Profile.Role == domain.RoleAdministrator {
		profile.Role = req.Role
	}
	updated, err := h.service.UpdateProfile(c.UserContext(), profile)
	if err != nil {
		return err
	}
	updated.Email = principal.Profile.Email
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(updated)})
}

// CreateProfile POST /auth/profiles. Administrator only.
func (h *AuthHandler) CreateProfile(c *fiber.Ctx) error {
	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile := &domain.Profile{
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	}
	created, err := h.service.CreateProfile(c.UserContext(), profile, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProfileResponse(created)})
}
