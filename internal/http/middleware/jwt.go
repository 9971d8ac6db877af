package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskmanager/internal/service"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWT.
const (
	ContextUserID = "user_id"
	ContextClaims = "jwt_claims"
)

// Authenticator verifies bearer tokens. *service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.TokenClaims, error)
}

// JWT rejects requests without a valid, unrevoked bearer token.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			unauthenticated(c)
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, *claims)
		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, GetLang(c)))
}
