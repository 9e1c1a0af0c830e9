package middleware

import (
	"context"
	"errors"
	"net/http"

	"go-candidate-scout/internal/delivery/http/response"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// AppErrors keep their status and message; anything else becomes a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		reqID := c.GetString(string(domain.KeyRequestID))

		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "path", c.FullPath(), "request_id", reqID, "error", appErr)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)

		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			logger.Log.Warn("Request abandoned", "path", c.FullPath(), "request_id", reqID, "error", err)
			response.Error(c, http.StatusServiceUnavailable, "Request was cancelled before it completed.", nil)

		default:
			// Internal details stay in the log; clients get a generic message.
			logger.Log.Error("Internal Server Error", "path", c.FullPath(), "request_id", reqID, "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
