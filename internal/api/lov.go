package api

import (
	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
)

// staticLovHandler resolves an enumeration-backed LOV by type identifier.
func (s *Server) staticLovHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		values, err := s.lovService.ResolveStatic(c.Param("name"))
		if err != nil {
			return nil, err
		}
		return types.LovListResponse{Code: types.ResponseCodeSuccess, Values: values}, nil
	})
}

// dynamicLovHandler resolves a query-backed LOV by source name. The bound
// query runs on every call so the result always reflects current data.
func (s *Server) dynamicLovHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		values, err := s.lovService.ResolveDynamic(c.Request.Context(), c.Param("name"))
		if err != nil {
			return nil, err
		}
		return types.LovListResponse{Code: types.ResponseCodeSuccess, Values: values}, nil
	})
}
