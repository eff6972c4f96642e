package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/api/dto"
	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/service"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// ContractsHandler manages contract CRUD endpoints.
type ContractsHandler struct {
	service *service.ContractService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contractService *service.ContractService) *ContractsHandler {
	return &ContractsHandler{service: contractService}
}

// Create POST /contracts.
func (h *ContractsHandler) Create(c *fiber.Ctx) error {
	var req dto.ContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	contract, err := h.service.Create(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":     dto.NewContractResponse(contract),
		"feedback": dto.SuccessFeedback("Contrato registrado."),
	})
}

// Update PUT /contracts/:id.
func (h *ContractsHandler) Update(c *fiber.Ctx) error {
	var req dto.ContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	contract, err := h.service.Update(c.UserContext(), req.ToDomain(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.NewContractResponse(contract),
		"feedback": dto.SuccessFeedback("Contrato atualizado."),
	})
}

// Delete DELETE /contracts/:id.
func (h *ContractsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": dto.SuccessFeedback("Contrato removido.")})
}

// Get GET /contracts/:id.
func (h *ContractsHandler) Get(c *fiber.Ctx) error {
	contract, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewContractResponse(contract)})
}

// List GET /contracts.
func (h *ContractsHandler) List(c *fiber.Ctx) error {
	contracts, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractResponses(contracts)})
}

// ListExpiring GET /contracts/expiring.
func (h *ContractsHandler) ListExpiring(c *fiber.Ctx) error {
	contracts, err := h.service.ListExpiring(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractResponses(contracts)})
}

func contractResponses(contracts []domain.Contract) []dto.ContractResponse {
	resp := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		resp = append(resp, dto.NewContractResponse(&contracts[i]))
	}
	return resp
}
