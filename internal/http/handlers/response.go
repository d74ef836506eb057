// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every response is wrapped in a status envelope so clients can
// branch on a single field:
//
//	success: {"status":"success", ...payload}
//	failure: {"status":"error", "message":"...", "error":"optional detail"}
//
// The `fail()` helper centralizes error formatting and guarantees that 5xx
// responses are logged with request context; raw internal detail only reaches
// the client when a handler explicitly passes it through (upstream error
// bodies, which the API deliberately exposes for diagnosability).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-legal-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Status is always "error".
	Status string `json:"status" example:"error"`
	// Message is a human-readable description, safe to show to users.
	Message string `json:"message" example:"consultation not found"`
	// Error optionally carries upstream diagnostic detail.
	Error string `json:"error,omitempty"`
}

// fail aborts the request with the standard error envelope. Server errors
// (>= 500) are logged with the request-scoped logger so the generic client
// message never hides the cause from operators.
func fail(c *gin.Context, status int, msg string) {
	failDetail(c, status, msg, "")
}

// failDetail is fail with an explicit diagnostic detail passed through to the
// client. Use only for upstream error bodies that are safe to expose.
func failDetail(c *gin.Context, status int, msg, detail string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", msg).
			Str("detail", detail).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  "error",
		Message: msg,
		Error:   detail,
	})
}

// Fail is the exported variant of fail(). External packages (e.g., router
// setup) use it for fallback routes so every error keeps the same envelope.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
