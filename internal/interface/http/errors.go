package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/response"
	"github.com/oksasatya/go-ddd-social/pkg/validation"
)

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrAlreadyRelated),
		errors.Is(err, app.ErrAlreadyMember),
		errors.Is(err, app.ErrNotAMember),
		errors.Is(err, app.ErrSelfRequest),
		errors.Is(err, app.ErrBlankName),
		errors.Is(err, app.ErrEmailTaken),
		errors.Is(err, app.ErrUnsupportedImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Unexpected errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, status, "internal server error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func currentUser(c *gin.Context) string {
	return c.GetString("userID")
}
