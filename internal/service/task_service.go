package service

import (
	"context"
	"strings"

	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// TaskService exposes CRUD over internal work items.
type TaskService struct {
	tasks repository.TaskRepository
}

// NewTaskService constructs the task service.
func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if strings.TrimSpace(task.ID) == "" {
		return nil, apperrors.NewValidationError("task id required", nil)
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

func validateTask(task *domain.Task) error {
	task.Name = strings.TrimSpace(task.Name)
	task.Subject = strings.TrimSpace(task.Subject)
	task.Department = strings.TrimSpace(task.Department)
	details := map[string]any{}
	if task.Name == "" {
		details["name"] = "required"
	}
	if task.Subject == "" {
		details["subject"] = "required"
	}
	if !validTaskStatus(task.Status) {
		details["status"] = "invalid"
	}
	if !validTaskPriority(task.Priority) {
		details["priority"] = "invalid"
	}
	if !validTaskClassification(task.Classification) {
		details["classification"] = "invalid"
	}
	if !task.DueDate.IsZero() && !task.StartDate.IsZero() && task.DueDate.Before(task.StartDate) {
		details["due_date"] = "before start date"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid task payload", details)
	}
	return nil
}

func validTaskStatus(status domain.TaskStatus) bool {
	switch status {
	case domain.TaskStatusOpen, domain.TaskStatusPending, domain.TaskStatusInProgress,
		domain.TaskStatusDone, domain.TaskStatusCancelled:
		return true
	}
	return false
}

func validTaskPriority(priority domain.TaskPriority) bool {
	for _, candidate := range domain.TaskPriorities() {
		if candidate == priority {
			return true
		}
	}
	return false
}

func validTaskClassification(classification domain.TaskClassification) bool {
	switch classification {
	case domain.TaskClassQuestion, domain.TaskClassProblem, domain.TaskClassFeature,
		domain.TaskClassImprovement, domain.TaskClassOther:
		return true
	}
	return false
}
