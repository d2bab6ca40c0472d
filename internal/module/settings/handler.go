package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/server/internal/shared/middleware"
	"github.com/taskboard/server/internal/shared/response"
)

// SetSettingRequest represents a request to set a workspace setting.
type SetSettingRequest struct {
	Value string `json:"value" binding:"required,max=4000"`
}

// Handler handles HTTP requests for workspace settings.
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers settings routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings")
	{
		settings.GET("", h.List)
		settings.GET("/:key", h.Get)
		settings.PUT("/:key", h.Set)
		settings.DELETE("/:key", h.Delete)
	}
}

var settingErrorMappings = []response.ErrorMapping{
	{Err: ErrSettingNotFound, Status: http.StatusNotFound},
	{Err: ErrAdminOnly, Status: http.StatusForbidden},
}

// List handles listing workspace settings.
//
//	@Summary	List settings
//	@Tags		Settings
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	Setting
//	@Router		/settings [get]
func (h *Handler) List(c *gin.Context) {
	settings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Get handles retrieving one setting.
//
//	@Summary	Get setting
//	@Tags		Settings
//	@Produce	json
//	@Security	BearerAuth
//	@Param		key	path		string	true	"Setting key"
//	@Success	200	{object}	Setting
//	@Router		/settings/{key} [get]
func (h *Handler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.HandleErrorWithDefault(c, err, settingErrorMappings)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Set handles upserting a setting.
//
//	@Summary	Set setting
//	@Tags		Settings
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		key		path		string				true	"Setting key"
//	@Param		request	body		SetSettingRequest	true	"Value"
//	@Success	200		{object}	Setting
//	@Failure	403		{object}	response.ErrorResponse
//	@Router		/settings/{key} [put]
func (h *Handler) Set(c *gin.Context) {
	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	setting, err := h.service.Set(c.Request.Context(), middleware.GetUserID(c), c.Param("key"), req.Value)
	if err != nil {
		response.HandleErrorWithDefault(c, err, settingErrorMappings)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// Delete handles removing a setting.
//
//	@Summary	Delete setting
//	@Tags		Settings
//	@Security	BearerAuth
//	@Param		key	path	string	true	"Setting key"
//	@Success	204
//	@Failure	403	{object}	response.ErrorResponse
//	@Router		/settings/{key} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("key")); err != nil {
		response.HandleErrorWithDefault(c, err, settingErrorMappings)
		return
	}
	c.Status(http.StatusNoContent)
}
