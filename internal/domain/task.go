package domain

import "time"

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "Aberto"
	TaskStatusPending    TaskStatus = "Pendente"
	TaskStatusInProgress TaskStatus = "Em Andamento"
	TaskStatusDone       TaskStatus = "Concluído"
	TaskStatusCancelled  TaskStatus = "Cancelado"
)

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "Alta"
	TaskPriorityMedium TaskPriority = "Média"
	TaskPriorityLow    TaskPriority = "Baixa"
)

// TaskClassification categorizes the nature of a task.
type TaskClassification string

const (
	TaskClassQuestion    TaskClassification = "Questão"
	TaskClassProblem     TaskClassification = "Problema"
	TaskClassFeature     TaskClassification = "Requisição de Funcionalidade"
	TaskClassImprovement TaskClassification = "Melhoria"
	TaskClassOther       TaskClassification = "Outro"
)

// TaskPriorities lists priorities in declaration order.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}
}

// Task is an internal work item tracked independently of tickets.
type Task struct {
	ID             string
	Name           string
	Subject        string
	Description    string
	Status         TaskStatus
	Department     string
	StartDate      time.Time
	DueDate        time.Time
	Priority       TaskPriority
	Classification TaskClassification
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
