package handler

import (
	"hotel-backoffice/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and writes the
// standard error body. Unknown errors come back as 500 with a generic
// message; internals never leak to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Kind.HTTPStatus(), gin.H{
		"error": appErr.Message,
	})
}
