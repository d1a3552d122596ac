package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/pkg/response"
)

const (
	CtxUserKey  = "user"
	CtxTokenKey = "token"

	bearerPrefix = "Bearer "
)

// UnauthenticatedMessage is the body of every 401.
const UnauthenticatedMessage = "Please authenticate."

// TokenVerifier is satisfied by *application.TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.User, error)
}

var _ TokenVerifier = (*application.TokenService)(nil)

// Auth resolves the bearer token to its user and puts both in the Gin context.
// A rejected token aborts with 401; a failing store aborts with 500. Either way
// the handler does not run.
func Auth(tokens TokenVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), bearerPrefix)
		u, err := tokens.Verify(c.Request.Context(), token)
		if errors.Is(err, errs.ErrUnauthenticated) {
			response.Error(c, http.StatusUnauthorized, UnauthenticatedMessage, nil)
			return
		}
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"request_id": c.GetString("request_id"),
					"route":      c.FullPath(),
				}).Error("auth lookup failed")
			}
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the user set by Auth, or nil on unauthenticated routes.
func CurrentUser(c *gin.Context) *entity.User {
	u, _ := c.Get(CtxUserKey)
	user, _ := u.(*entity.User)
	return user
}

// CurrentToken returns the raw bearer token set by Auth.
func CurrentToken(c *gin.Context) string {
	return c.GetString(CtxTokenKey)
}
