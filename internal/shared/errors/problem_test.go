package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, engine *gin.Engine, method, path string) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespondFillsInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/bad", func(c *gin.Context) {
		Respond(c, ErrBadRequest.WithDetail("limit must be an integer"))
	})

	rec, problem := serve(t, engine, http.MethodGet, "/bad")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "/bad", problem.Instance)
	require.Equal(t, "Bad Request: limit must be an integer", problem.Error())
}

func TestNoRouteAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Recovery())
	engine.NoRoute(NoRoute)
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	rec, problem := serve(t, engine, http.MethodGet, "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, TypeNotFound, problem.Type)

	rec, problem = serve(t, engine, http.MethodGet, "/panic")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, TypeInternal, problem.Type)
	require.Empty(t, problem.Detail)
}
