package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/api/dto"
	"github.com/hpdsk/helpdesk-service/internal/service"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// TasksHandler manages task CRUD endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// Create POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.Create(c.UserContext(), req.ToDomain(""))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":     dto.NewTaskResponse(task),
		"feedback": dto.SuccessFeedback("Tarefa criada."),
	})
}

// Update PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.Update(c.UserContext(), req.ToDomain(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.NewTaskResponse(task),
		"feedback": dto.SuccessFeedback("Tarefa atualizada."),
	})
}

// Delete DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": dto.SuccessFeedback("Tarefa removida.")})
}

// Get GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	task, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// List GET /tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
