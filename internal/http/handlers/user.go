package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"taskmanager/internal/domain"
	"taskmanager/internal/resource"

	"github.com/gin-gonic/gin"
)

// ProfileRequest is the JSON form of a profile update. Multipart requests
// carry the same fields plus an optional "avatar" file.
type ProfileRequest struct {
	Name  *string `json:"name" form:"name"`
	Email *string `json:"email" form:"email"`
}

// GetProfile - GET /user/profile
func (h *Handler) GetProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := h.users.Profile(c.Request.Context(), actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromUser(user))
}

// UpdateProfile - PUT /user/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var upd domain.ProfileUpdate
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var req ProfileRequest
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c)
			return
		}
		upd.Name, upd.Email = req.Name, req.Email

		if fh, err := c.FormFile("avatar"); err == nil {
			avatar, err := readUpload(fh, domain.MaxAvatarSize)
			if err != nil {
				fail(c, err)
				return
			}
			upd.Avatar = avatar
		}
	} else {
		var req ProfileRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badPayload(c)
				return
			}
		}
		upd.Name, upd.Email = req.Name, req.Email
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), actor, upd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.FromUser(user))
}

// ListUsers - GET /users?search=&page=
func (h *Handler) ListUsers(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	page, err := h.users.Search(c.Request.Context(), strings.TrimSpace(c.Query("search")), pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Paginate(page, resource.FromUser))
}

// Activity - GET /user/activity?limit=
// Returns the caller's own audit trail, newest first.
func (h *Handler) Activity(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.audit.GetUserAuditLogs(c.Request.Context(), actor, limit)
	if err != nil {
		fail(c, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}
