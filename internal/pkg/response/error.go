package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it is logged and answered with 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Code: appErr.Kind.String()})
		return
	}

	slog.ErrorContext(c.Request.Context(), "unhandled error",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"err", err,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  apperror.KindInternal.String(),
	})
}

// BadRequest answers a binding or validation failure.
func BadRequest(c *gin.Context, message string, err error) {
	msg := message
	if err != nil {
		msg = message + ": " + err.Error()
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: apperror.KindInvalidArgument.String()})
}
