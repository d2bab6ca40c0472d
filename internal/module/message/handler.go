package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskboard/server/internal/shared/middleware"
	"github.com/taskboard/server/internal/shared/response"
)

// PostMessageRequest represents a request to post a message.
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}

// EditMessageRequest represents a request to edit a message.
type EditMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}

// Handler handles HTTP requests for project message boards.
type Handler struct {
	service *Service
}

// NewHandler creates a new message handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers message routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/projects/:project_id/messages")
	{
		messages.GET("", h.List)
		messages.POST("", h.Post)
		messages.PATCH("/:message_id", h.Edit)
		messages.DELETE("/:message_id", h.Delete)
	}
}

var messageErrorMappings = []response.ErrorMapping{
	{Err: ErrMessageNotFound, Status: http.StatusNotFound},
	{Err: ErrNotAuthor, Status: http.StatusForbidden},
	{Err: ErrAccessDenied, Status: http.StatusForbidden},
}

// List handles listing a project's recent messages.
//
//	@Summary	List messages
//	@Tags		Message
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Success	200			{array}	Message
//	@Failure	403			{object}	response.ErrorResponse
//	@Router		/projects/{project_id}/messages [get]
func (h *Handler) List(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	messages, err := h.service.ListRecent(c.Request.Context(), projectID, middleware.GetUserID(c))
	if err != nil {
		response.HandleErrorWithDefault(c, err, messageErrorMappings)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// Post handles posting a message.
//
//	@Summary	Post message
//	@Tags		Message
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string				true	"Project ID"
//	@Param		request		body		PostMessageRequest	true	"Message body"
//	@Success	201			{object}	Message
//	@Router		/projects/{project_id}/messages [post]
func (h *Handler) Post(c *gin.Context) {
	projectID, ok := h.projectID(c)
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.Post(c.Request.Context(), projectID, middleware.GetUserID(c), req.Body)
	if err != nil {
		response.HandleErrorWithDefault(c, err, messageErrorMappings)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Edit handles editing a message.
//
//	@Summary	Edit message
//	@Tags		Message
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		project_id	path		string				true	"Project ID"
//	@Param		message_id	path		string				true	"Message ID"
//	@Param		request		body		EditMessageRequest	true	"New body"
//	@Success	200			{object}	Message
//	@Router		/projects/{project_id}/messages/{message_id} [patch]
func (h *Handler) Edit(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.Edit(c.Request.Context(), messageID, middleware.GetUserID(c), req.Body)
	if err != nil {
		response.HandleErrorWithDefault(c, err, messageErrorMappings)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// Delete handles deleting a message.
//
//	@Summary	Delete message
//	@Tags		Message
//	@Security	BearerAuth
//	@Param		project_id	path	string	true	"Project ID"
//	@Param		message_id	path	string	true	"Message ID"
//	@Success	204
//	@Router		/projects/{project_id}/messages/{message_id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), messageID, middleware.GetUserID(c)); err != nil {
		response.HandleErrorWithDefault(c, err, messageErrorMappings)
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
