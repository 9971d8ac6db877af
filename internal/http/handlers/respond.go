package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskmanager/internal/domain"
	"taskmanager/internal/http/middleware"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getActor extracts the authenticated user set by the JWT middleware.
func getActor(c *gin.Context) (domain.Actor, bool) {
	uidVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return domain.Actor{}, false
	}
	switch v := uidVal.(type) {
	case int64:
		return domain.Actor{ID: v}, v > 0
	case float64:
		return domain.Actor{ID: int64(v)}, v > 0
	default:
		return domain.Actor{}, false
	}
}

// requireActor writes a 401 and returns false when there is no actor.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := getActor(c)
	if !ok {
		abort(c, http.StatusUnauthorized, apierrors.MsgUnauthenticated)
	}
	return actor, ok
}

// pathID parses the :id route parameter and writes a 404 when it is not a
// positive integer, the same answer an unknown id gets.
func pathID(c *gin.Context, notFoundMsg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortKind(c, http.StatusNotFound, domain.KindNotFound, notFoundMsg, nil)
		return 0, false
	}
	return id, true
}

// pageParam reads ?page=, falling back to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func abort(c *gin.Context, code int, msgKey string) {
	c.AbortWithStatusJSON(code, apierrors.CreateError(code, msgKey, middleware.GetLang(c)))
}

func abortKind(c *gin.Context, code int, kind domain.ErrorKind, msgKey string, fields map[string]string) {
	c.AbortWithStatusJSON(code, apierrors.CreateKindError(code, string(kind), msgKey, fields, middleware.GetLang(c)))
}

func invalid(c *gin.Context, fields map[string]string) {
	abortKind(c, http.StatusUnprocessableEntity, domain.KindValidation, apierrors.MsgValidationFailed, fields)
}

// badPayload answers a body that could not be decoded at all.
func badPayload(c *gin.Context) {
	abortKind(c, http.StatusUnprocessableEntity, domain.KindValidation, apierrors.MsgInvalidPayload, nil)
}

func message(c *gin.Context, msgKey string) {
	c.JSON(http.StatusOK, gin.H{"message": apierrors.GetTransErrorMsg(msgKey, middleware.GetLang(c))})
}

var notFoundMessages = map[string]string{
	"task":       apierrors.MsgTaskNotFound,
	"comment":    apierrors.MsgCommentNotFound,
	"attachment": apierrors.MsgAttachmentNotFound,
	"user":       apierrors.MsgUserNotFound,
	"blob":       apierrors.MsgFileNotFound,
}

// fail renders err as the structured error response matching its kind.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, domain.ErrInvalidCredentials) {
		abort(c, http.StatusUnauthorized, apierrors.MsgInvalidCredentials)
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortKind(c, http.StatusInternalServerError, domain.KindInternal, apierrors.MsgInternal, nil)
		return
	}

	switch de.Kind {
	case domain.KindValidation:
		invalid(c, de.Fields)
	case domain.KindAuthorization:
		abortKind(c, http.StatusForbidden, de.Kind, apierrors.MsgForbidden, nil)
	case domain.KindNotFound:
		msg, ok := notFoundMessages[de.Resource]
		if !ok {
			msg = apierrors.MsgNotFound
		}
		abortKind(c, http.StatusNotFound, de.Kind, msg, nil)
	case domain.KindConflict:
		msg := apierrors.MsgConflict
		if errors.Is(err, domain.ErrEmailTaken) {
			msg = apierrors.MsgEmailTaken
		}
		abortKind(c, http.StatusConflict, de.Kind, msg, de.Fields)
	case domain.KindStorage:
		zap.L().Error("storage failure", zap.String("path", c.FullPath()), zap.Error(err))
		abortKind(c, http.StatusBadGateway, de.Kind, apierrors.MsgStorageFailure, nil)
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortKind(c, http.StatusInternalServerError, domain.KindInternal, apierrors.MsgInternal, nil)
	}
}
