package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

type CommentHandler struct {
	Svc    *app.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *app.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type commentRequest struct {
	Content string `json:"content" binding:"required,body"`
}

// Create POST /api/posts/:postId/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	cm, err := h.Svc.CreateComment(c.Request.Context(), c.Param("postId"), currentUser(c), req.Content)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toComment(cm), "comment created", nil)
}

func (h *CommentHandler) List(c *gin.Context) {
	list, err := h.Svc.ListComments(c.Request.Context(), c.Param("postId"), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toComments(list), "comments", nil)
}

// Update PUT /api/comments/:commentId, author only
func (h *CommentHandler) Update(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	cm, err := h.Svc.UpdateComment(c.Request.Context(), c.Param("commentId"), currentUser(c), req.Content)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toComment(cm), "comment updated", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteComment(c.Request.Context(), c.Param("commentId"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("commentId")}, "comment deleted", nil)
}
