// Package handlers contains the gin request handlers for the REST API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/claimlens/claimlens/pkg/errors"
)

// ErrorResponse is the standard error body: the application error code plus
// a human-readable message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps application errors onto HTTP status codes.  Internal
// details are masked; the code survives so clients can dispatch on it.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	case errors.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.IsConflict(err), errors.IsCode(err, errors.ErrCodeClaimInvalid):
		status = http.StatusConflict
		message = err.Error()
	case errors.IsTimeout(err):
		status = http.StatusGatewayTimeout
		message = err.Error()
	}

	c.JSON(status, ErrorResponse{
		Code:    string(errors.GetCode(err)),
		Message: message,
	})
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, offset = 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
