package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/response"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

// writeError maps domain errors to HTTP statuses. Unknown errors are logged and
// reported as a bare 500 so internals never reach the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, errs.ErrValidation):
		response.Error(c, http.StatusBadRequest, err.Error(), errs.Details(err))
	case errors.Is(err, errs.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, middleware.UnauthenticatedMessage, nil)
	case errors.Is(err, errs.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, errs.ErrConflict):
		response.Error(c, http.StatusBadRequest, "email already in use", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"route":      c.FullPath(),
			}).Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// bindError reports a JSON binding failure as a 400 with per-field details.
func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
