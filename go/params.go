package rescueserver

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	apierrors "github.com/Apurer/rescue-adoption-api/internal/shared/errors"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// PageParams are the limit/offset query parameters shared by listings.
type PageParams struct {
	Limit  *int
	Offset *int
}

// ListActivitiesParams are the query parameters of GET /activities.
type ListActivitiesParams struct {
	From   *openapi_types.Date
	To     *openapi_types.Date
	Urgent *bool
	PageParams
}

func bindPageParams(query url.Values, params *PageParams) error {
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return err
	}
	return runtime.BindQueryParameter("form", true, false, "offset", query, &params.Offset)
}

func (p PageParams) window() projection.Window {
	var w projection.Window
	if p.Limit != nil {
		w.Limit = *p.Limit
	}
	if p.Offset != nil {
		w.Offset = *p.Offset
	}
	return w
}

// queryWindow binds limit and offset, answering 400 when they are not integers.
func queryWindow(c *gin.Context) (projection.Window, bool) {
	var params PageParams
	if err := bindPageParams(c.Request.URL.Query(), &params); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return projection.Window{}, false
	}
	return params.window(), true
}

func bindListActivitiesParams(c *gin.Context) (ListActivitiesParams, bool) {
	var params ListActivitiesParams
	query := c.Request.URL.Query()
	for name, dest := range map[string]any{"from": &params.From, "to": &params.To, "urgent": &params.Urgent} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
			return params, false
		}
	}
	if err := bindPageParams(query, &params.PageParams); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return params, false
	}
	return params, true
}
