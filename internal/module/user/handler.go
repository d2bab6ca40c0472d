package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/server/internal/shared/middleware"
	"github.com/taskboard/server/internal/shared/response"
)

// Handler handles HTTP requests for accounts and profiles.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes registers routes that do not require authentication.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// RegisterRoutes registers authenticated user routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)
		users.PUT("/me/password", h.ChangePassword)
		users.DELETE("/me", h.DeleteMe)
		users.GET("/search", h.Search)
	}
}

var userErrorMappings = []response.ErrorMapping{
	{Err: ErrEmailAlreadyExists, Status: http.StatusConflict, Code: "EMAIL_TAKEN"},
	{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"},
	{Err: ErrPasswordTooShort, Status: http.StatusBadRequest},
	{Err: ErrIncorrectPassword, Status: http.StatusBadRequest},
	{Err: ErrUserNotFound, Status: http.StatusNotFound},
}

// Register handles account registration.
//
//	@Summary	Register
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"Registration details"
//	@Success	201		{object}	AuthResponse
//	@Failure	409		{object}	response.ErrorResponse
//	@Router		/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles authentication.
//
//	@Summary	Login
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	AuthResponse
//	@Failure	401		{object}	response.ErrorResponse
//	@Router		/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe handles retrieving the caller's profile.
//
//	@Summary	Get my profile
//	@Tags		User
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Profile
//	@Router		/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe handles updating the caller's profile.
//
//	@Summary	Update my profile
//	@Tags		User
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		UpdateProfileRequest	true	"Fields to update"
//	@Success	200		{object}	Profile
//	@Router		/users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword handles a password change.
//
//	@Summary	Change password
//	@Tags		User
//	@Accept		json
//	@Security	BearerAuth
//	@Param		request	body	ChangePasswordRequest	true	"Password change"
//	@Success	204
//	@Router		/users/me/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteMe handles account deletion.
//
//	@Summary	Delete my account
//	@Tags		User
//	@Accept		json
//	@Security	BearerAuth
//	@Success	204
//	@Router		/users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), middleware.GetUserID(c), req.Password); err != nil {
		response.HandleErrorWithDefault(c, err, userErrorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search handles email prefix search for member pickers.
//
//	@Summary	Search users by email
//	@Tags		User
//	@Produce	json
//	@Security	BearerAuth
//	@Param		email	query		string	true	"Email prefix, at least 3 characters"
//	@Success	200		{array}		Profile
//	@Router		/users/search [get]
func (h *Handler) Search(c *gin.Context) {
	profiles, err := h.service.SearchByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
