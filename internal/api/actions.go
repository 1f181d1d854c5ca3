package api

import (
	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
)

// fetchActionsHandler serves the action catalog: the wire representation of
// every registered descriptor, sorted by name. Remote clients build their
// requests from this catalog.
func (s *Server) fetchActionsHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		descriptors := s.registry.List()
		actions := make([]types.ActionModel, 0, len(descriptors))
		for _, desc := range descriptors {
			actions = append(actions, desc.Model())
		}
		return types.FetchActionsResponse{
			Code:    types.ResponseCodeSuccess,
			Actions: actions,
		}, nil
	})
}
