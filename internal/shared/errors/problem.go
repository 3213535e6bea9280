// Package errors renders transport-level failures as RFC 7807 Problem Details.
// Workflow outcomes never use it; they travel in the result envelope.
package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

const (
	TypeBadRequest   = "/problems/bad-request"
	TypeUnauthorized = "/problems/unauthorized"
	TypeNotFound     = "/problems/not-found"
	TypeInternal     = "/problems/internal-error"
)

var (
	// ErrBadRequest covers malformed JSON, query parameters and path values.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrUnauthorized is returned when the caller identity cannot be established.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	// ErrNotFound is returned for unknown routes.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrInternal is returned when a handler panics.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)

// Respond writes problem with the problem+json media type. Instance defaults to the
// request path.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// NoRoute answers unknown routes with a 404 problem.
func NoRoute(c *gin.Context) {
	Respond(c, ErrNotFound.WithDetail(fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
}

// Recovery turns a handler panic into a 500 problem without leaking the panic value.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		Respond(c, ErrInternal)
		c.Abort()
	})
}
