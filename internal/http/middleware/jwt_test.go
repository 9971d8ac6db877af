package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubAuth struct {
	claims *service.TokenClaims
	seen   string
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*service.TokenClaims, error) {
	s.seen = token
	if s.claims == nil {
		return nil, service.ErrInvalidToken
	}
	return s.claims, nil
}

func jwtRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWT(auth), func(c *gin.Context) {
		uid, _ := c.Get(ContextUserID)
		claims, _ := c.Get(ContextClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "jti": claims.(service.TokenClaims).ID})
	})
	return r
}

func TestJWT_SetsUserAndClaims(t *testing.T) {
	auth := &stubAuth{claims: &service.TokenClaims{UserID: 42, ID: "abc", ExpiresAt: time.Now().Add(time.Hour)}}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer  tok-42 ")
	rec := httptest.NewRecorder()
	jwtRouter(auth).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42,"jti":"abc"}`, rec.Body.String())
	assert.Equal(t, "tok-42", auth.seen)
}

func TestJWT_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer forged"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			jwtRouter(&stubAuth{}).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":401`)
		})
	}
}
