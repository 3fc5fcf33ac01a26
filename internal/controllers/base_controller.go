package controllers

import (
	"net/http"

	"schemahub-server/internal/logics"
	"schemahub-server/internal/middlewares"
	"schemahub-server/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BaseController provides the pieces every controller needs.
type BaseController struct {
	Logger *zap.Logger
}

func NewBaseController(logger *zap.Logger) BaseController {
	return BaseController{Logger: logger}
}

// GetCallerFromContext builds the caller identity the JWT middleware
// resolved. Handlers behind the middleware always get a complete identity.
func (bc *BaseController) GetCallerFromContext(c echo.Context) (logics.Caller, error) {
	userID, err := middlewares.GetUserIDFromContext(c)
	if err != nil {
		return logics.Caller{}, err
	}
	username, err := middlewares.GetUsernameFromContext(c)
	if err != nil {
		return logics.Caller{}, err
	}
	return logics.Caller{UserID: userID, Username: username}, nil
}

// RespondError writes an error as `{"error": message}` with the HTTP status
// its code maps to. Internal errors are logged with their cause but surface
// only a generic message.
func (bc *BaseController) RespondError(c echo.Context, err error) error {
	status := errors.StatusOf(err)
	if status == http.StatusInternalServerError {
		errors.LogError(bc.Logger, err, "Request failed",
			zap.String("path", c.Request().URL.Path),
			zap.String("method", c.Request().Method))
		return c.JSON(status, map[string]string{"error": "internal server error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
