package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gatekit/auth"
	apperrors "github.com/kbukum/gatekit/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError derives the status and body from err. Authentication
// failures use their HTTP mapping, AppErrors are sent as is and anything
// else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		appErr := authErr.AppError()
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
