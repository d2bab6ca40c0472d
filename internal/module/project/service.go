package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskboard/server/internal/module/team"
	"go.uber.org/zap"
)

// TeamGate is the slice of the team service the project module depends on.
type TeamGate interface {
	CanAccessTeam(ctx context.Context, projectID, userID uuid.UUID) bool
	ResolveManagerName(ctx context.Context, projectID uuid.UUID, explicitManagerID string) string
	AddMember(ctx context.Context, projectID uuid.UUID, input team.AddMemberInput) (*team.TeamMember, error)
}

// Service provides project and task operations.
type Service struct {
	repo   Repository
	teams  TeamGate
	logger *zap.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, teams TeamGate, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		teams:  teams,
		logger: logger,
	}
}

// CreateInput describes a project to create.
type CreateInput struct {
	Name        string
	Description string
	OwnerName   string
}

// Create creates a project and enrolls the owner as its project manager.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*Project, error) {
	project := &Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Status:      StatusPlanning,
		OwnerID:     ownerID,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	// The owner starts as a managing member. Failure here is not fatal:
	// manager resolution falls back to the owner's profile anyway.
	if _, err := s.teams.AddMember(ctx, project.ID, team.AddMemberInput{
		UserID:      &ownerID,
		DisplayName: input.OwnerName,
		Role:        string(team.RoleProjectManager),
	}); err != nil {
		s.logger.Warn("could not enroll owner as manager",
			zap.String("project_id", project.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return project, nil
}

// Get returns a project if the user may see it: owners always may, everyone
// else goes through the team access gate.
func (s *Service) Get(ctx context.Context, projectID, userID uuid.UUID) (*Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != userID && !s.teams.CanAccessTeam(ctx, projectID, userID) {
		return nil, ErrAccessDenied
	}
	return project, nil
}

// ManagerName resolves the display name of the project's manager.
func (s *Service) ManagerName(ctx context.Context, project *Project) string {
	explicit := ""
	if project.ManagerID != nil {
		explicit = project.ManagerID.String()
	}
	return s.teams.ResolveManagerName(ctx, project.ID, explicit)
}

// List returns the projects the user owns or belongs to.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Project, error) {
	return s.repo.ListForUser(ctx, userID)
}

// UpdateInput describes a partial project update.
type UpdateInput struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	ManagerID   *uuid.UUID
}

// Update applies a partial update. Only the owner may update a project.
func (s *Service) Update(ctx context.Context, projectID, userID uuid.UUID, input UpdateInput) (*Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, ErrNotOwner
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		project.Status = *input.Status
	}
	if input.ManagerID != nil {
		project.ManagerID = input.ManagerID
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Delete removes a project. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.logger.Info("project deleted",
		zap.String("project_id", projectID.String()),
	)
	return nil
}

// ========== Tasks ==========

// TaskInput describes a task to create or update.
type TaskInput struct {
	Title       string
	Description string
	Priority    TaskPriority
	AssigneeID  *uuid.UUID
}

// CreateTask creates a task on a project the user can access.
func (s *Service) CreateTask(ctx context.Context, projectID, userID uuid.UUID, input TaskInput) (*Task, error) {
	if _, err := s.Get(ctx, projectID, userID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	task := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      TaskTodo,
		Priority:    priority,
		AssigneeID:  input.AssigneeID,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ListTasks lists the tasks of a project the user can access.
func (s *Service) ListTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*Task, error) {
	if _, err := s.Get(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, projectID)
}

// TaskUpdate describes a partial task update.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	AssigneeID  *uuid.UUID
}

// UpdateTask applies a partial update to a task on an accessible project.
func (s *Service) UpdateTask(ctx context.Context, projectID, taskID, userID uuid.UUID, update TaskUpdate) (*Task, error) {
	if _, err := s.Get(ctx, projectID, userID); err != nil {
		return nil, err
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *update.Status
	}
	if update.Priority != nil {
		if !update.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *update.Priority
	}
	if update.AssigneeID != nil {
		task.AssigneeID = update.AssigneeID
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task from an accessible project.
func (s *Service) DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, projectID, userID); err != nil {
		return err
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ProjectID != projectID {
		return ErrTaskNotFound
	}

	return s.repo.DeleteTask(ctx, taskID)
}
