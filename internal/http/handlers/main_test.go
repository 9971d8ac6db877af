package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/config"
	httpServer "taskmanager/internal/http"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/service"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const translationFolder = "../../../pkg/translator/translation"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  translationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})
	os.Exit(m.Run())
}

const (
	adaToken = "token-1"
	bobToken = "token-2"
)

var (
	adaClaims = service.TokenClaims{UserID: 1, ID: "jti-ada", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	bobClaims = service.TokenClaims{UserID: 2, ID: "jti-bob", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
)

type testApp struct {
	tasks       *taskServiceMock
	comments    *commentServiceMock
	attachments *attachmentServiceMock
	users       *userServiceMock
	auth        *authServiceMock
	audit       *auditServiceMock
	router      *gin.Engine
	dbDown      bool
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	a := &testApp{
		tasks:       new(taskServiceMock),
		comments:    new(commentServiceMock),
		attachments: new(attachmentServiceMock),
		users:       new(userServiceMock),
		auth:        new(authServiceMock),
		audit:       new(auditServiceMock),
	}
	h := handlers.NewHandler(handlers.Services{
		Tasks:       a.tasks,
		Comments:    a.comments,
		Attachments: a.attachments,
		Users:       a.users,
		Auth:        a.auth,
		Audit:       a.audit,
	})
	db := handlers.PingFunc(func(context.Context) error {
		if a.dbDown {
			return io.ErrUnexpectedEOF
		}
		return nil
	})
	ok := handlers.PingFunc(func(context.Context) error { return nil })
	health := handlers.NewHealthHandler(db, ok, nil, "test")

	cfg := &config.Config{
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		AuthRateLimit:  1000,
		AuthRateWindow: time.Minute,
	}
	a.router = gin.New()
	httpServer.RegisterRoutes(a.router, h, health, tokenAuth{adaToken: adaClaims, bobToken: bobClaims}, cfg)

	t.Cleanup(func() {
		a.tasks.AssertExpectations(t)
		a.comments.AssertExpectations(t)
		a.attachments.AssertExpectations(t)
		a.users.AssertExpectations(t)
		a.auth.AssertExpectations(t)
		a.audit.AssertExpectations(t)
	})
	return a
}

func (a *testApp) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept-Language", translator.LanguageEn)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doLang(method, path, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept-Language", lang)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) sendJSON(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return a.do(method, path, token, r, "application/json")
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Err {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got.ErrDetails
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var got T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}
