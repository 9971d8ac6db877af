package handlers

import (
	"net/http"

	"taskmanager/internal/http/middleware"
	"taskmanager/internal/resource"
	"taskmanager/internal/service"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	User      *resource.User `json:"user"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{Token: res.Token, TokenType: "Bearer", User: resource.FromUser(res.User)}
}

// Register - POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAuthResponse(res))
}

// Login - POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(res))
}

// Logout - POST /auth/logout, revokes the token the request was made with.
func (h *Handler) Logout(c *gin.Context) {
	v, ok := c.Get(middleware.ContextClaims)
	claims, isClaims := v.(service.TokenClaims)
	if !ok || !isClaims {
		abort(c, http.StatusUnauthorized, apierrors.MsgUnauthenticated)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		fail(c, err)
		return
	}
	message(c, apierrors.MsgLoggedOut)
}
