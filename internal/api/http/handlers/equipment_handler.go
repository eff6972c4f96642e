package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/api/dto"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	"github.com/hpdsk/helpdesk-service/internal/service"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// EquipmentHandler manages inventory CRUD endpoints.
type EquipmentHandler struct {
	service *service.EquipmentService
}

// NewEquipmentHandler constructs handler.
func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{service: equipmentService}
}

// Create POST /equipment.
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Create(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":     dto.NewEquipmentResponse(item),
		"feedback": dto.SuccessFeedback("Equipamento registrado."),
	})
}

// Update PUT /equipment/:id.
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var req dto.EquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Update(c.UserContext(), req.ToDomain(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.NewEquipmentResponse(item),
		"feedback": dto.SuccessFeedback("Equipamento atualizado."),
	})
}

// Delete DELETE /equipment/:id.
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": dto.SuccessFeedback("Equipamento removido.")})
}

// Get GET /equipment/:id.
func (h *EquipmentHandler) Get(c *fiber.Ctx) error {
	item, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(item)})
}

// List GET /equipment.
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	filter := repository.EquipmentFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.EquipmentStatus(strings.TrimSpace(part)))
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			filter.Types = append(filter.Types, domain.EquipmentType(strings.TrimSpace(part)))
		}
	}
	items, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.EquipmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewEquipmentResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}
