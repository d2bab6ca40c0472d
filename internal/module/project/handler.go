package project

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskboard/server/internal/shared/middleware"
	"github.com/taskboard/server/internal/shared/response"
)

// Handler handles HTTP requests for projects and tasks.
type Handler struct {
	service *Service
}

// NewHandler creates a new project handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers project routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:project_id", h.Get)
		projects.PATCH("/:project_id", h.Update)
		projects.DELETE("/:project_id", h.Delete)

		tasks := projects.Group("/:project_id/tasks")
		{
			tasks.POST("", h.CreateTask)
			tasks.GET("", h.ListTasks)
			tasks.PATCH("/:task_id", h.UpdateTask)
			tasks.DELETE("/:task_id", h.DeleteTask)
		}
	}
}

var projectErrorMappings = []response.ErrorMapping{
	{Err: ErrProjectNotFound, Status: http.StatusNotFound},
	{Err: ErrTaskNotFound, Status: http.StatusNotFound},
	{Err: ErrNotOwner, Status: http.StatusForbidden},
	{Err: ErrAccessDenied, Status: http.StatusForbidden},
	{Err: ErrInvalidStatus, Status: http.StatusBadRequest},
	{Err: ErrInvalidPriority, Status: http.StatusBadRequest},
}

// Create handles project creation.
//
//	@Summary	Create project
//	@Tags		Project
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreateProjectRequest	true	"Project details"
//	@Success	201		{object}	Project
//	@Router		/projects [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// List handles listing the caller's projects.
//
//	@Summary	List my projects
//	@Tags		Project
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	Project
//	@Router		/projects [get]
func (h *Handler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

// Get handles retrieving a project with its resolved manager name.
//
//	@Summary	Get project
//	@Tags		Project
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string	true	"Project ID"
//	@Success	200			{object}	ProjectResponse
//	@Failure	403			{object}	response.ErrorResponse
//	@Router		/projects/{project_id} [get]
func (h *Handler) Get(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), projectID, middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}

	c.JSON(http.StatusOK, ProjectResponse{
		Project:     project,
		ManagerName: h.service.ManagerName(c.Request.Context(), project),
	})
}

// Update handles a partial project update.
//
//	@Summary	Update project
//	@Tags		Project
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string					true	"Project ID"
//	@Param		request		body		UpdateProjectRequest	true	"Fields to update"
//	@Success	200			{object}	Project
//	@Failure	403			{object}	response.ErrorResponse
//	@Router		/projects/{project_id} [patch]
func (h *Handler) Update(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.service.Update(c.Request.Context(), projectID, middleware.GetUserID(c), UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete handles project deletion.
//
//	@Summary	Delete project
//	@Tags		Project
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Success	204
//	@Failure	403	{object}	response.ErrorResponse
//	@Router		/projects/{project_id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), projectID, middleware.GetUserID(c)); err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTask handles task creation.
//
//	@Summary	Create task
//	@Tags		Task
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string				true	"Project ID"
//	@Param		request		body		CreateTaskRequest	true	"Task details"
//	@Success	201			{object}	Task
//	@Router		/projects/{project_id}/tasks [post]
func (h *Handler) CreateTask(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), projectID, middleware.GetUserID(c), TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListTasks handles listing a project's tasks.
//
//	@Summary	List tasks
//	@Tags		Task
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Success	200			{array}	Task
//	@Router		/projects/{project_id}/tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), projectID, middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// UpdateTask handles a partial task update.
//
//	@Summary	Update task
//	@Tags		Task
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string				true	"Project ID"
//	@Param		task_id		path		string				true	"Task ID"
//	@Param		request		body		UpdateTaskRequest	true	"Fields to update"
//	@Success	200			{object}	Task
//	@Router		/projects/{project_id}/tasks/{task_id} [patch]
func (h *Handler) UpdateTask(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), projectID, taskID, middleware.GetUserID(c), TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion.
//
//	@Summary	Delete task
//	@Tags		Task
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Param		task_id		path	string	true	"Task ID"
//	@Success	204
//	@Router		/projects/{project_id}/tasks/{task_id} [delete]
func (h *Handler) DeleteTask(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), projectID, taskID, middleware.GetUserID(c)); err != nil {
		response.HandleErrorWithDefault(c, err, projectErrorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return uuid.Nil, false
	}
	return id, true
}
