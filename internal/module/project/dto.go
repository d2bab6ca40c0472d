package project

import "github.com/google/uuid"

// CreateProjectRequest represents a project creation request.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest represents a partial project update.
type UpdateProjectRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description" binding:"omitempty,max=2000"`
	Status      *ProjectStatus `json:"status"`
	ManagerID   *uuid.UUID     `json:"manager_id"`
}

// ProjectResponse is a project with its resolved manager name.
type ProjectResponse struct {
	*Project
	ManagerName string `json:"manager_name"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,min=1,max=200"`
	Description string       `json:"description" binding:"max=2000"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string       `json:"description" binding:"omitempty,max=2000"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID    `json:"assignee_id"`
}
