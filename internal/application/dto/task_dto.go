package dto

import "time"

// CreateTaskRequest alta de tarea.
type CreateTaskRequest struct {
	Title           string     `json:"title" validate:"required,min=1,max=200"`
	Description     string     `json:"description"`
	DueDate         *time.Time `json:"dueDate" validate:"required"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssignedTo      string     `json:"assignedTo"`
	RelatedLead     string     `json:"relatedLead"`
	RelatedProperty string     `json:"relatedProperty"`
}

// UpdateTaskRequest actualización parcial.
type UpdateTaskRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description"`
	DueDate         *time.Time `json:"dueDate"`
	Priority        *string    `json:"priority"`
	Status          *string    `json:"status"`
	AssignedTo      *string    `json:"assignedTo"`
	RelatedLead     *string    `json:"relatedLead"`
	RelatedProperty *string    `json:"relatedProperty"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DueDate         time.Time `json:"dueDate"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	AssignedTo      *string   `json:"assignedTo"`
	RelatedLead     *string   `json:"relatedLead"`
	RelatedProperty *string   `json:"relatedProperty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
