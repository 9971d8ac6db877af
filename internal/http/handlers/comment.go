package handlers

import (
	"net/http"

	"taskmanager/internal/resource"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type CommentRequest struct {
	Content string `json:"content"`
}

// ListComments - GET /tasks/:id/comments
func (h *Handler) ListComments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	page, err := h.comments.List(c.Request.Context(), actor, taskID, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Paginate(page, resource.FromComment))
}

// CreateComment - POST /tasks/:id/comments
func (h *Handler) CreateComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actor, taskID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resource.FromComment(comment))
}

// UpdateComment - PUT /tasks/comments/:id
func (h *Handler) UpdateComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgCommentNotFound)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromComment(comment))
}

// DeleteComment - DELETE /tasks/comments/:id
func (h *Handler) DeleteComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgCommentNotFound)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	message(c, apierrors.MsgCommentDeleted)
}
