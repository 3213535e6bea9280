package rescueserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/rescue-adoption-api/internal/shared/errors"
	"github.com/Apurer/rescue-adoption-api/internal/shared/result"
)

// respondProblem answers a transport failure with RFC 7807 and stops the chain.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
	c.Abort()
}

// respondResult wraps a workflow outcome in the response envelope. Business failures are
// successful exchanges; only storage failures change the status code.
func respondResult(c *gin.Context, message string, data any, err error) {
	if err != nil {
		c.JSON(result.HTTPStatus(err), result.Fail(err))
		return
	}
	c.JSON(http.StatusOK, result.OK(message, data))
}

// respondMapped is respondResult for a service value that still needs its HTTP view. The view is
// built only on success, so a failure envelope never carries data.
func respondMapped[T, V any](c *gin.Context, message string, value T, err error, toView func(T) V) {
	if err != nil {
		respondResult(c, "", nil, err)
		return
	}
	respondResult(c, message, toView(value), nil)
}

// bindJSON decodes the body into dst; an empty body is accepted when optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if optional && c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		detail := err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is required"
		}
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(detail))
		return false
	}
	return true
}

func pathParam(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}
