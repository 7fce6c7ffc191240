// Package handlers implements the HTTP handlers of the public API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/http/middleware"
)

// ErrorResponse is the error envelope every endpoint returns. RequestID
// echoes X-Request-ID for log correlation, Code is one of the errors.go
// constants, Message is safe to show to users.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail aborts with a structured error body. Server errors additionally go to
// the request-scoped logger; client errors are the caller's problem and stay
// out of the error log.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail exposes fail to the router for NoRoute/NoMethod envelopes.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
