package dto

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// TaskRequest payload for create and update.
type TaskRequest struct {
	Name           string                    `json:"name"`
	Subject        string                    `json:"subject"`
	Description    string                    `json:"description"`
	Status         domain.TaskStatus         `json:"status"`
	Department     string                    `json:"department"`
	StartDate      time.Time                 `json:"start_date"`
	DueDate        time.Time                 `json:"due_date"`
	Priority       domain.TaskPriority       `json:"priority"`
	Classification domain.TaskClassification `json:"classification"`
}

// TaskResponse response.
type TaskResponse struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	Subject        string                    `json:"subject"`
	Description    string                    `json:"description"`
	Status         domain.TaskStatus         `json:"status"`
	Department     string                    `json:"department"`
	StartDate      time.Time                 `json:"start_date"`
	DueDate        time.Time                 `json:"due_date"`
	Priority       domain.TaskPriority       `json:"priority"`
	Classification domain.TaskClassification `json:"classification"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// ToDomain maps the request onto a domain task.
func (r *TaskRequest) ToDomain(id string) *domain.Task {
	return &domain.Task{
		ID:             id,
		Name:           r.Name,
		Subject:        r.Subject,
		Description:    r.Description,
		Status:         r.Status,
		Department:     r.Department,
		StartDate:      r.StartDate,
		DueDate:        r.DueDate,
		Priority:       r.Priority,
		Classification: r.Classification,
	}
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Name:           task.Name,
		Subject:        task.Subject,
		Description:    task.Description,
		Status:         task.Status,
		Department:     task.Department,
		StartDate:      task.StartDate,
		DueDate:        task.DueDate,
		Priority:       task.Priority,
		Classification: task.Classification,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}
