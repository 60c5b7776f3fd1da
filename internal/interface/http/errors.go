package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/apperror"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/response"
)

// statusOf maps an application error onto its HTTP status.
func statusOf(err error) int {
	if errors.Is(err, application.ErrJobHasApplications) {
		return http.StatusBadRequest
	}
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindAuthentication:
		return http.StatusUnauthorized
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Internal failures are logged and replaced by a
// generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"route":      c.FullPath(),
		})
	}
	response.Error[any](c, status, apperror.MessageOf(err), nil)
}
