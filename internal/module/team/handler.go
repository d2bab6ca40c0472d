package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskboard/server/internal/shared/middleware"
	"github.com/taskboard/server/internal/shared/response"
)

// Handler handles HTTP requests for project teams.
type Handler struct {
	service *Service
}

// NewHandler creates a new team handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers team routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/roles", h.ListRoles)

	team := r.Group("/projects/:project_id/team")
	{
		team.GET("", h.ListMembers)
		team.POST("", h.AddMember)
		team.DELETE("/:member_id", h.RemoveMember)
		team.PATCH("/:member_id", h.UpdateMemberRole)

		team.GET("/manager", h.GetManager)
		team.GET("/permissions", h.GetMyPermissions)
		team.GET("/access", h.CheckAccess)
	}
}

var mutationErrorMappings = []response.ErrorMapping{
	{Err: ErrDuplicateMember, Status: http.StatusConflict, Code: "ALREADY_MEMBER", Message: "user is already a member of this project"},
	{Err: ErrMemberNotFound, Status: http.StatusNotFound, Code: "MEMBER_NOT_FOUND", Message: "member not found"},
	{Err: ErrMemberNotLinked, Status: http.StatusUnprocessableEntity, Code: "MEMBER_NOT_LINKED", Message: "member has no linked user account"},
	{Err: ErrInvalidRole, Status: http.StatusBadRequest, Code: "INVALID_ROLE", Message: "invalid role"},
	{Err: ErrPolicyRecursion, Status: http.StatusServiceUnavailable, Code: "PERMISSION_SYSTEM_MISCONFIGURED", Message: "permission system misconfigured"},
	{Err: ErrGatewayFailure, Status: http.StatusBadGateway, Code: "BACKEND_UNAVAILABLE", Message: "backend call failed"},
}

// ListRoles handles listing the canonical role catalog.
//
//	@Summary	List roles
//	@Tags		Team
//	@Produce	json
//	@Success	200	{array}	RoleInfo
//	@Router		/roles [get]
func (h *Handler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": RoleCatalog()})
}

// ListMembers handles listing a project's current team.
//
//	@Summary	List team members
//	@Tags		Team
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string	true	"Project ID"
//	@Param		describe	query		string	false	"Set to true to attach role descriptions"
//	@Success	200			{object}	TeamResponse
//	@Failure	403			{object}	response.ErrorResponse
//	@Router		/projects/{project_id}/team [get]
func (h *Handler) ListMembers(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if !h.service.CanAccessTeam(c.Request.Context(), projectID, userID) {
		response.Forbidden(c, "you do not have access to this project's team")
		return
	}

	members := h.service.ListTeamMembers(c.Request.Context(), projectID)
	if c.Query("describe") == "true" {
		members = h.service.DescribeRoles(members)
	}

	c.JSON(http.StatusOK, TeamResponse{Members: members, Count: len(members)})
}

// AddMember handles adding a team member.
//
//	@Summary	Add team member
//	@Tags		Team
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string				true	"Project ID"
//	@Param		request		body		AddMemberRequest	true	"Member to add"
//	@Success	201			{object}	TeamMember
//	@Failure	409			{object}	response.ErrorResponse
//	@Router		/projects/{project_id}/team [post]
func (h *Handler) AddMember(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	if !h.service.CanAccessTeam(c.Request.Context(), projectID, userID) {
		response.Forbidden(c, "you do not have access to this project's team")
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), projectID, AddMemberInput{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		response.HandleErrorWithDefault(c, err, mutationErrorMappings)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember handles removing a team member.
//
//	@Summary	Remove team member
//	@Tags		Team
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Param		member_id	path	string	true	"Membership ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/projects/{project_id}/team/{member_id} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	userID := middleware.GetUserID(c)

	if !h.service.CanAccessTeam(c.Request.Context(), projectID, userID) {
		response.Forbidden(c, "you do not have access to this project's team")
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), projectID, memberID); err != nil {
		response.HandleErrorWithDefault(c, err, mutationErrorMappings)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateMemberRole handles changing a member's role.
//
//	@Summary	Update member role
//	@Tags		Team
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path	string					true	"Project ID"
//	@Param		member_id	path	string					true	"Membership ID"
//	@Param		request		body	UpdateMemberRoleRequest	true	"New role"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/projects/{project_id}/team/{member_id} [patch]
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	userID := middleware.GetUserID(c)

	if !h.service.CanAccessTeam(c.Request.Context(), projectID, userID) {
		response.Forbidden(c, "you do not have access to this project's team")
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), memberID, NormalizeRole(req.Role)); err != nil {
		response.HandleErrorWithDefault(c, err, mutationErrorMappings)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetManager handles resolving the project manager's display name.
//
//	@Summary	Get project manager
//	@Tags		Team
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string	true	"Project ID"
//	@Param		manager_id	query		string	false	"Explicit manager id hint"
//	@Success	200			{object}	ManagerResponse
//	@Router		/projects/{project_id}/team/manager [get]
func (h *Handler) GetManager(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	name := h.service.ResolveManagerName(c.Request.Context(), projectID, c.Query("manager_id"))
	c.JSON(http.StatusOK, ManagerResponse{Manager: name})
}

// GetMyPermissions handles listing the caller's permissions on a project.
//
//	@Summary	Get my project permissions
//	@Tags		Team
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string	true	"Project ID"
//	@Success	200			{object}	PermissionsResponse
//	@Router		/projects/{project_id}/team/permissions [get]
func (h *Handler) GetMyPermissions(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	perms := h.service.Permissions(c.Request.Context(), userID, projectID)
	c.JSON(http.StatusOK, PermissionsResponse{Permissions: perms})
}

// CheckAccess handles the team access gate probe.
//
//	@Summary	Check team access
//	@Tags		Team
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string	true	"Project ID"
//	@Success	200			{object}	AccessResponse
//	@Router		/projects/{project_id}/team/access [get]
func (h *Handler) CheckAccess(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	allowed := h.service.CanAccessTeam(c.Request.Context(), projectID, userID)
	c.JSON(http.StatusOK, AccessResponse{Allowed: allowed})
}

func (h *Handler) projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return uuid.Nil, false
	}
	return id, true
}
